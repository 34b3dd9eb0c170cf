// Package audit turns reservation events from the broker into audit trail
// entries.
package audit

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/flight-seat-reservations/internal/domain"
	"github.com/robertarktes/flight-seat-reservations/internal/observability"
)

var (
	ErrBadPayload      = errors.New("malformed reservation event")
	ErrSinkUnavailable = errors.New("audit sink unavailable")
)

// Sink persists one decoded event. Implemented by the Mongo audit logger.
type Sink interface {
	LogReservation(ctx context.Context, messageID string, ev domain.ReservationEvent) error
}

type Handler struct {
	sink   Sink
	logger observability.Logger
}

func NewHandler(sink Sink, logger observability.Logger) *Handler {
	return &Handler{sink: sink, logger: logger}
}

// Handle decodes and records one message. Undecodable bodies return
// ErrBadPayload.
func (h *Handler) Handle(ctx context.Context, messageID string, body []byte) error {
	var ev domain.ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return errors.Mark(errors.Wrap(err, "decode event"), ErrBadPayload)
	}
	if !strings.HasPrefix(ev.Type, "reservation.") || ev.ReservationID <= 0 {
		return errors.Mark(errors.Newf("unexpected event %q for reservation %d", ev.Type, ev.ReservationID), ErrBadPayload)
	}
	return h.sink.LogReservation(ctx, messageID, ev)
}

// Run acknowledges each delivery after it is recorded. Bad payloads are
// dropped. A sink failure requeues the delivery and ends Run with
// ErrSinkUnavailable so the caller can back off before consuming again.
// Run also returns when deliveries closes or ctx is done.
func (h *Handler) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := h.deliver(ctx, d); err != nil {
				return err
			}
		}
	}
}

func (h *Handler) deliver(ctx context.Context, d amqp.Delivery) error {
	log := h.logger.WithFields(map[string]interface{}{
		"message_id":  d.MessageId,
		"routing_key": d.RoutingKey,
	})
	err := h.Handle(ctx, d.MessageId, d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("ack failed: ", ackErr)
		}
	case errors.Is(err, ErrBadPayload):
		log.Warn("dropping message: ", err)
		_ = d.Nack(false, false)
	default:
		log.Error("audit write failed: ", err)
		_ = d.Nack(false, true)
		return errors.Mark(errors.Wrap(err, "record audit event"), ErrSinkUnavailable)
	}
	return nil
}
