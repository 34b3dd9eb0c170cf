package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/robertarktes/flight-seat-reservations/internal/adapters/crdb"
	"github.com/robertarktes/flight-seat-reservations/internal/adapters/memory"
	redisadapter "github.com/robertarktes/flight-seat-reservations/internal/adapters/redis"
	"github.com/robertarktes/flight-seat-reservations/internal/auth"
	"github.com/robertarktes/flight-seat-reservations/internal/booking"
	"github.com/robertarktes/flight-seat-reservations/internal/config"
	"github.com/robertarktes/flight-seat-reservations/internal/domain"
	httphandler "github.com/robertarktes/flight-seat-reservations/internal/http"
	"github.com/robertarktes/flight-seat-reservations/internal/idempotency"
	"github.com/robertarktes/flight-seat-reservations/internal/observability"
	"github.com/robertarktes/flight-seat-reservations/internal/rateLimit"
)

type reservationStore interface {
	domain.Store
	httphandler.Pinger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdown, err := observability.SetupOTel(context.Background(), cfg, "seats-api")
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger(cfg.LogLevel)

	var (
		store reservationStore
		creds auth.CredentialStore
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		store = memory.NewStore()
		creds, err = auth.NewStaticCredentials(cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}
		logger.Warn("using in-memory reservation store; data is lost on restart")
	default:
		pool, err := pgxpool.New(context.Background(), cfg.CRDBDSN)
		if err != nil {
			log.Fatalf("failed to connect to crdb: %v", err)
		}
		defer pool.Close()
		repo := crdb.NewRepository(pool)
		store, creds = repo, repo
	}

	var (
		revocations auth.Revocations
		idemp       *idempotency.Idempotency
		rl          *rateLimit.RateLimiter
	)
	if cfg.RedisAddr != "" {
		redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		cache := redisadapter.NewCache(redisClient)

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := cache.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.WithField("addr", cfg.RedisAddr).Warn("redis unavailable, rate limiting and idempotency disabled: ", err)
		} else {
			revocations = cache
			idemp = idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), cfg.IdempotencyTTL)
			rl = rateLimit.NewRateLimiter(cache)
		}
	}

	authn := auth.NewAuthenticator(creds, revocations, cfg.JWTSecret, cfg.AdminTokenTTL)
	handlers := httphandler.NewHandlers(booking.NewEngine(store), authn, store, logger)

	r := httphandler.SetupRouter(handlers, logger, rl, cfg.RateLimitPerMinute, idemp)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server Shutdown: ", err)
	}
	logger.Info("Server exiting")
}
