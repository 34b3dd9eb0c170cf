package crdb

import (
	"context"

	"github.com/robertarktes/flight-seat-reservations/internal/domain"
)

const schema = `
	CREATE SEQUENCE IF NOT EXISTS reservation_id_seq;
	CREATE TABLE IF NOT EXISTS reservations (
		id INT8 PRIMARY KEY DEFAULT nextval('reservation_id_seq'),
		passenger_first_name TEXT NOT NULL,
		passenger_last_name TEXT NOT NULL,
		seat_row INT8 NOT NULL CHECK (seat_row BETWEEN 1 AND 12),
		seat_column INT8 NOT NULL CHECK (seat_column BETWEEN 1 AND 4),
		ticket_code TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (seat_row, seat_column)
	);
	CREATE TABLE IF NOT EXISTS admins (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS outbox (
		id UUID PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		payload_json JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		published_at TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'NEW' CHECK (status IN ('NEW', 'PUBLISHED')),
		dedupe_key TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS outbox_status_created_at_idx ON outbox (status, created_at);
`

// Migrate creates the tables if they do not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return domain.StorageError(err, "migrate schema")
}
