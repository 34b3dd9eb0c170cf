package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	mongoadapter "github.com/robertarktes/flight-seat-reservations/internal/adapters/mongo"
	"github.com/robertarktes/flight-seat-reservations/internal/adapters/rabbit"
	"github.com/robertarktes/flight-seat-reservations/internal/audit"
	"github.com/robertarktes/flight-seat-reservations/internal/config"
	"github.com/robertarktes/flight-seat-reservations/internal/observability"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	queueName  = "seats.audit"
	prefetch   = 50
	maxBackoff = 30 * time.Second
)

func main() {
	cfg := config.FromEnv()
	if cfg.MongoURI == "" || cfg.RabbitURL == "" {
		log.Fatal("audit worker requires MONGO_URI and RABBIT_URL")
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg, "seats-audit-worker")
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	auditLogger := mongoadapter.NewAuditLogger(mongoClient.Database("seats"), logger)
	handler := audit.NewHandler(auditLogger, logger)

	backoff := time.Second
	for ctx.Err() == nil {
		connected, err := consume(ctx, cfg.RabbitURL, handler)
		if ctx.Err() != nil {
			break
		}
		if connected && !errors.Is(err, audit.ErrSinkUnavailable) {
			backoff = time.Second
		}
		logger.WithField("retry_in", backoff.String()).Warn("audit consumer stopped: ", err)
		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
	logger.Info("Shutdown audit worker")
}

// consume runs one broker session until the connection drops, the audit
// sink fails or ctx ends. connected reports whether deliveries started.
func consume(ctx context.Context, url string, handler *audit.Handler) (connected bool, err error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	consumer, err := rabbit.NewConsumer(conn, queueName, prefetch)
	if err != nil {
		return false, err
	}
	defer consumer.Close()

	deliveries, err := consumer.Consume(ctx)
	if err != nil {
		return false, err
	}
	return true, handler.Run(ctx, deliveries)
}
