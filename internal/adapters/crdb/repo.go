package crdb

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robertarktes/flight-seat-reservations/internal/domain"
	"github.com/robertarktes/flight-seat-reservations/internal/observability"
)

const (
	SerializationFailureCode = "40001"
	UniqueViolationCode      = "23505"

	maxTxAttempts = 5
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	start := time.Now()
	defer func() { observability.DBTxDuration.Observe(time.Since(start).Seconds()) }()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return mapTxError(err)
	}
	return mapTxError(tx.Commit(ctx))
}

// withRetry restarts transactions aborted by a serialization failure.
func (r *Repository) withRetry(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = r.WithTx(ctx, fn)
		if !errors.Is(err, domain.ErrSerializationFailure) {
			return err
		}
	}
	return err
}

func mapTxError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case SerializationFailureCode:
			return domain.ErrSerializationFailure
		case UniqueViolationCode:
			return domain.ErrConflict
		}
	}
	return err
}

func (r *Repository) IsSeatTaken(ctx context.Context, seat domain.Seat) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM reservations WHERE seat_row = $1 AND seat_column = $2)
	`, seat.Row, seat.Column).Scan(&taken)
	if err != nil {
		return false, domain.StorageError(err, "is seat taken")
	}
	return taken, nil
}

// Insert relies on the (seat_row, seat_column) unique constraint: a row
// that loses the race is dropped by ON CONFLICT and reported as
// domain.ErrConflict.
func (r *Repository) Insert(ctx context.Context, nr domain.NewReservation) (domain.Reservation, error) {
	var res domain.Reservation
	err := r.withRetry(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO reservations (passenger_first_name, passenger_last_name, seat_row, seat_column, ticket_code)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (seat_row, seat_column) DO NOTHING
			RETURNING id, created_at
		`, nr.PassengerFirstName, nr.PassengerLastName, nr.Seat.Row, nr.Seat.Column, nr.TicketCode).
			Scan(&res.ID, &res.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConflict
		}
		if err != nil {
			return err
		}
		res.PassengerFirstName = nr.PassengerFirstName
		res.PassengerLastName = nr.PassengerLastName
		res.Seat = nr.Seat
		res.TicketCode = nr.TicketCode
		return r.InsertOutbox(ctx, tx, domain.NewReservationEvent(domain.EventReservationCreated, res, res.CreatedAt))
	})
	if errors.Is(err, domain.ErrConflict) {
		return domain.Reservation{}, domain.ErrConflict
	}
	if err != nil {
		return domain.Reservation{}, domain.StorageError(err, "insert reservation")
	}
	return res, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	err := r.withRetry(ctx, func(tx pgx.Tx) error {
		var res domain.Reservation
		err := tx.QueryRow(ctx, `
			DELETE FROM reservations WHERE id = $1
			RETURNING id, passenger_first_name, passenger_last_name, seat_row, seat_column, ticket_code, created_at
		`, id).Scan(&res.ID, &res.PassengerFirstName, &res.PassengerLastName, &res.Seat.Row, &res.Seat.Column, &res.TicketCode, &res.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		return r.InsertOutbox(ctx, tx, domain.NewReservationEvent(domain.EventReservationDeleted, res, time.Now()))
	})
	return domain.StorageError(err, "delete reservation")
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, passenger_first_name, passenger_last_name, seat_row, seat_column, ticket_code, created_at
		FROM reservations
		ORDER BY seat_row, seat_column
	`)
	if err != nil {
		return nil, domain.StorageError(err, "list reservations")
	}
	defer rows.Close()

	reservations := []domain.Reservation{}
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.PassengerFirstName, &res.PassengerLastName, &res.Seat.Row, &res.Seat.Column, &res.TicketCode, &res.CreatedAt); err != nil {
			return nil, domain.StorageError(err, "scan reservation")
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError(err, "list reservations")
	}
	return reservations, nil
}
