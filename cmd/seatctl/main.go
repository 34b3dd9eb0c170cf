// seatctl performs one-off maintenance against the reservation database.
//
//	seatctl migrate
//	seatctl add-admin --username alice --password s3cret
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robertarktes/flight-seat-reservations/internal/adapters/crdb"
	"github.com/robertarktes/flight-seat-reservations/internal/auth"
	"github.com/robertarktes/flight-seat-reservations/internal/config"
	"github.com/spf13/pflag"
)

const usage = `usage: seatctl <command> [flags]

commands:
  migrate      create or update the reservation schema
  add-admin    create an administrator or reset its password
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(os.Stderr, usage)
		return nil
	}

	switch args[0] {
	case "migrate":
		return withRepository(func(ctx context.Context, repo *crdb.Repository) error {
			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			fmt.Println("schema is up to date")
			return nil
		})
	case "add-admin":
		return addAdmin(args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return errors.Newf("unknown command %q", args[0])
	}
}

func addAdmin(args []string) error {
	var username, password string
	flagSet := pflag.NewFlagSet("add-admin", pflag.ContinueOnError)
	flagSet.StringVarP(&username, "username", "u", "", "administrator username")
	flagSet.StringVarP(&password, "password", "p", "", "administrator password")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return errors.New(auth.MsgCredentialsRequired)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	return withRepository(func(ctx context.Context, repo *crdb.Repository) error {
		if err := repo.UpsertAdmin(ctx, username, hash); err != nil {
			return err
		}
		fmt.Printf("administrator %q saved\n", username)
		return nil
	})
}

func withRepository(fn func(ctx context.Context, repo *crdb.Repository) error) error {
	cfg := config.FromEnv()
	if cfg.CRDBDSN == "" {
		return errors.New("CRDB_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.CRDBDSN)
	if err != nil {
		return errors.Wrap(err, "connect to crdb")
	}
	defer pool.Close()
	return fn(ctx, crdb.NewRepository(pool))
}
