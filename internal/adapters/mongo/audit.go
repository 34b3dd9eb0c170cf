package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/flight-seat-reservations/internal/domain"
	"github.com/robertarktes/flight-seat-reservations/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
	now    func() time.Time
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
		now:    time.Now,
	}
}

type AuditLog struct {
	ID         string    `bson:"_id"`
	Action     string    `bson:"action"`
	Subject    string    `bson:"subject"`
	OccurredAt time.Time `bson:"occurred_at"`
	Timestamp  time.Time `bson:"timestamp"`
	Data       bson.M    `bson:"data"`
}

// LogEvent inserts one audit document. id makes redelivered messages
// idempotent; an empty id gets a fresh one.
func (a *AuditLogger) LogEvent(ctx context.Context, id, action, subject string, occurredAt time.Time, data map[string]interface{}) error {
	if id == "" {
		id = uuid.NewString()
	}
	log := AuditLog{
		ID:         id,
		Action:     action,
		Subject:    subject,
		OccurredAt: occurredAt,
		Timestamp:  a.now().UTC(),
		Data:       bson.M(data),
	}
	_, err := a.coll.InsertOne(ctx, log)
	if mongo.IsDuplicateKeyError(err) {
		a.logger.WithField("audit_id", id).Debug("audit log already recorded")
		return nil
	}
	if err != nil {
		a.logger.WithField("audit_id", id).Error("failed to insert audit log: ", err)
		return err
	}
	return nil
}

func (a *AuditLogger) LogReservation(ctx context.Context, messageID string, ev domain.ReservationEvent) error {
	data := map[string]interface{}{
		"reservation_id": ev.ReservationID,
		"first_name":     ev.FirstName,
		"last_name":      ev.LastName,
		"seat_row":       ev.SeatRow,
		"seat_column":    ev.SeatColumn,
		"ticket_code":    ev.TicketCode,
	}
	return a.LogEvent(ctx, messageID, ev.Type, "reservation", ev.OccurredAt, data)
}
