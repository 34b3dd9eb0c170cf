// Package outbox relays committed reservation events from the outbox table
// to the broker.
package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/flight-seat-reservations/internal/adapters/crdb"
	"github.com/robertarktes/flight-seat-reservations/internal/observability"
)

const batchSize = 50

type Source interface {
	GetUnpublishedOutbox(ctx context.Context, limit int) ([]crdb.OutboxRecord, error)
	MarkPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error
}

type Broker interface {
	Publish(ctx context.Context, key string, msg amqp.Publishing) error
}

type Publisher struct {
	repo      Source
	rabbitPub Broker
	logger    observability.Logger
	interval  time.Duration
	now       func() time.Time
}

func NewPublisher(repo Source, rabbitPub Broker, logger observability.Logger, interval time.Duration) *Publisher {
	return &Publisher{repo: repo, rabbitPub: rabbitPub, logger: logger, interval: interval, now: time.Now}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.PublishPending(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("outbox relay failed: ", err)
			}
		}
	}
}

// PublishPending relays one batch in creation order and returns how many
// records were published. It stops at the first broker failure so later
// events are never delivered ahead of earlier ones.
func (p *Publisher) PublishPending(ctx context.Context) (int, error) {
	records, err := p.repo.GetUnpublishedOutbox(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		observability.OutboxLag.Set(0)
		return 0, nil
	}
	observability.OutboxLag.Set(p.now().Sub(records[0].CreatedAt).Seconds())

	published := 0
	for _, rec := range records {
		msg := amqp.Publishing{
			MessageId:    rec.DedupeKey,
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    rec.CreatedAt,
			Type:         rec.EventType,
			Body:         rec.Payload,
		}
		if err := p.rabbitPub.Publish(ctx, rec.EventType, msg); err != nil {
			observability.RabbitPublishFailures.Inc()
			return published, err
		}
		if err := p.repo.MarkPublished(ctx, rec.ID, p.now().UTC()); err != nil {
			return published, err
		}
		published++
	}
	p.logger.WithField("count", published).Debug("outbox batch published")
	return published, nil
}
