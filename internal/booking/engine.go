// Package booking allocates seats and derives the occupancy, roster and
// revenue views. Engine keeps no state between calls; every answer is read
// fresh from the store.
package booking

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/flight-seat-reservations/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

type Engine struct {
	store domain.Store
	now   func() time.Time
}

func NewEngine(store domain.Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Book reserves req.Seat. It returns a *domain.ValidationError for bad
// input, domain.ErrConflict when the seat is occupied, and an error marked
// domain.ErrStorage when the store fails. A rejected booking changes
// nothing.
func (e *Engine) Book(ctx context.Context, req BookingRequest) (domain.Reservation, error) {
	ctx, span := otel.Tracer("booking").Start(ctx, "Engine.Book")
	defer span.End()
	span.SetAttributes(attribute.Int("seat.row", req.Seat.Row), attribute.Int("seat.column", req.Seat.Column))

	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		return domain.Reservation{}, domain.NewValidationError(MsgFieldsRequired)
	}
	if !req.Seat.Valid() {
		return domain.Reservation{}, domain.NewValidationError(MsgSeatOutOfRange)
	}

	taken, err := e.store.IsSeatTaken(ctx, req.Seat)
	if err != nil {
		span.RecordError(err)
		return domain.Reservation{}, err
	}
	if taken {
		return domain.Reservation{}, domain.ErrConflict
	}

	res, err := e.store.Insert(ctx, domain.NewBooking(first, last, req.Seat))
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			span.RecordError(err)
		}
		return domain.Reservation{}, err
	}
	span.SetAttributes(attribute.Int64("reservation.id", res.ID))
	return res, nil
}

// SeatingChart projects the current reservations onto the grid.
func (e *Engine) SeatingChart(ctx context.Context) (domain.SeatingChart, error) {
	reservations, err := e.store.ListAll(ctx)
	if err != nil {
		return domain.SeatingChart{}, err
	}
	return chartOf(reservations), nil
}

func chartOf(reservations []domain.Reservation) domain.SeatingChart {
	var chart domain.SeatingChart
	for _, r := range reservations {
		if r.Seat.Valid() {
			chart[r.Seat.Row-1][r.Seat.Column-1] = domain.Reserved
		}
	}
	return chart
}

func (e *Engine) CostMatrix() domain.CostMatrix {
	return domain.Prices()
}

func (e *Engine) TotalRevenue(ctx context.Context, token domain.AdminToken) (int, error) {
	if err := e.authorize(token); err != nil {
		return 0, err
	}
	reservations, err := e.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return domain.Prices().Revenue(reservations), nil
}

func (e *Engine) Roster(ctx context.Context, token domain.AdminToken) ([]domain.Reservation, error) {
	if err := e.authorize(token); err != nil {
		return nil, err
	}
	return e.store.ListAll(ctx)
}

// Cancel deletes a reservation. Cancelling an unknown id succeeds.
func (e *Engine) Cancel(ctx context.Context, token domain.AdminToken, id int64) error {
	if err := e.authorize(token); err != nil {
		return err
	}
	return e.store.Delete(ctx, id)
}

type Dashboard struct {
	Chart        domain.SeatingChart
	TotalRevenue int
	Reservations []domain.Reservation
}

// Dashboard gathers the administrator views concurrently.
func (e *Engine) Dashboard(ctx context.Context, token domain.AdminToken) (Dashboard, error) {
	if err := e.authorize(token); err != nil {
		return Dashboard{}, err
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		chart, err := e.SeatingChart(gctx)
		d.Chart = chart
		return err
	})
	g.Go(func() error {
		revenue, err := e.TotalRevenue(gctx, token)
		d.TotalRevenue = revenue
		return err
	})
	g.Go(func() error {
		roster, err := e.Roster(gctx, token)
		d.Reservations = roster
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

func (e *Engine) authorize(token domain.AdminToken) error {
	if !token.Valid(e.now()) {
		return domain.ErrUnauthorized
	}
	return nil
}
