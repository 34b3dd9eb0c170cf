package crdb

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/flight-seat-reservations/internal/domain"
)

// PasswordHash returns the stored bcrypt hash for an administrator, or
// domain.ErrNotFound.
func (r *Repository) PasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := r.pool.QueryRow(ctx, `
		SELECT password_hash FROM admins WHERE username = $1
	`, strings.TrimSpace(username)).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", domain.StorageError(err, "query admin")
	}
	return hash, nil
}

func (r *Repository) UpsertAdmin(ctx context.Context, username, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admins (username, password_hash) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash
	`, strings.TrimSpace(username), passwordHash)
	return domain.StorageError(err, "upsert admin")
}
