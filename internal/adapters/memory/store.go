// Package memory is an in-process reservation store. It keeps the same
// seat uniqueness and id rules as the SQL store and is used for tests and
// single-node development runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robertarktes/flight-seat-reservations/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	byID   map[int64]domain.Reservation
	bySeat map[domain.Seat]int64
	lastID int64
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		byID:   map[int64]domain.Reservation{},
		bySeat: map[domain.Seat]int64{},
		now:    time.Now,
	}
}

func (s *Store) IsSeatTaken(ctx context.Context, seat domain.Seat) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.StorageError(err, "is seat taken")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bySeat[seat]
	return ok, nil
}

// Insert checks the seat and assigns the id under one lock, so two inserts
// for the same seat can never both succeed.
func (s *Store) Insert(ctx context.Context, nr domain.NewReservation) (domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Reservation{}, domain.StorageError(err, "insert reservation")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bySeat[nr.Seat]; ok {
		return domain.Reservation{}, domain.ErrConflict
	}
	s.lastID++
	r := domain.Reservation{
		ID:                 s.lastID,
		PassengerFirstName: nr.PassengerFirstName,
		PassengerLastName:  nr.PassengerLastName,
		Seat:               nr.Seat,
		TicketCode:         nr.TicketCode,
		CreatedAt:          s.now().UTC(),
	}
	s.byID[r.ID] = r
	s.bySeat[r.Seat] = r.ID
	return r, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return domain.StorageError(err, "delete reservation")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil
	}
	delete(s.byID, id)
	delete(s.bySeat, r.Seat)
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StorageError(err, "list reservations")
	}
	s.mu.RLock()
	out := make([]domain.Reservation, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Seat.Row != out[j].Seat.Row {
			return out[i].Seat.Row < out[j].Seat.Row
		}
		return out[i].Seat.Column < out[j].Seat.Column
	})
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
