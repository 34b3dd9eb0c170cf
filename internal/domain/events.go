package domain

import "time"

const (
	EventReservationCreated = "reservation.created"
	EventReservationDeleted = "reservation.deleted"
)

// ReservationEvent is the payload relayed through the outbox to the broker.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	SeatRow       int       `json:"seat_row"`
	SeatColumn    int       `json:"seat_column"`
	TicketCode    string    `json:"ticket_code"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewReservationEvent(eventType string, r Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		FirstName:     r.PassengerFirstName,
		LastName:      r.PassengerLastName,
		SeatRow:       r.Seat.Row,
		SeatColumn:    r.Seat.Column,
		TicketCode:    r.TicketCode,
		OccurredAt:    at.UTC(),
	}
}
