package domain

import (
	"context"
	"time"
)

const (
	Rows    = 12
	Columns = 4
)

type Seat struct {
	Row    int
	Column int
}

// Valid reports whether the seat lies on the 12x4 grid.
func (s Seat) Valid() bool {
	return s.Row >= 1 && s.Row <= Rows && s.Column >= 1 && s.Column <= Columns
}

type Reservation struct {
	ID                 int64
	PassengerFirstName string
	PassengerLastName  string
	Seat               Seat
	TicketCode         string
	CreatedAt          time.Time
}

// NewReservation is a reservation that has not been assigned an id yet.
type NewReservation struct {
	PassengerFirstName string
	PassengerLastName  string
	Seat               Seat
	TicketCode         string
}

// Store owns the reservation set and the seat uniqueness invariant.
// Insert returns ErrConflict when the seat is already occupied.
type Store interface {
	IsSeatTaken(ctx context.Context, seat Seat) (bool, error)
	Insert(ctx context.Context, r NewReservation) (Reservation, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]Reservation, error)
}

type SeatStatus int

const (
	Open SeatStatus = iota
	Reserved
)

func (s SeatStatus) String() string {
	if s == Reserved {
		return "X"
	}
	return "O"
}

type SeatingChart [Rows][Columns]SeatStatus

// Strings renders the chart row by row as "O"/"X" glyphs.
func (c SeatingChart) Strings() [][]string {
	out := make([][]string, Rows)
	for r := range c {
		out[r] = make([]string, Columns)
		for col, status := range c[r] {
			out[r][col] = status.String()
		}
	}
	return out
}

// AdminToken is the authenticated administrator context required by
// administrative operations.
type AdminToken struct {
	ID        string
	Username  string
	ExpiresAt time.Time
}

func (t AdminToken) Valid(now time.Time) bool {
	return t.Username != "" && now.Before(t.ExpiresAt)
}
