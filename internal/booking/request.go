package booking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robertarktes/flight-seat-reservations/internal/domain"
)

const (
	MsgFieldsRequired     = "All fields are required."
	MsgSeatNotNumeric     = "Seat row and seat column must be numbers."
	MsgSeatOutOfRange     = "Seat row must be 1–12 and seat column must be 1–4."
	MsgSeatTaken          = "That seat is already reserved. Please choose another."
	MsgReservationDeleted = "Reservation deleted."
)

// BookingForm is the raw booking submission, untrimmed and unparsed.
type BookingForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	SeatRow   string `json:"seat_row"`
	SeatCol   string `json:"seat_col"`
}

type BookingRequest struct {
	FirstName string
	LastName  string
	Seat      domain.Seat
}

// ParseBookingForm trims, checks and converts a submission. Failures are
// *domain.ValidationError values carrying the message for the user.
func ParseBookingForm(f BookingForm) (BookingRequest, error) {
	first := strings.TrimSpace(f.FirstName)
	last := strings.TrimSpace(f.LastName)
	rowStr := strings.TrimSpace(f.SeatRow)
	colStr := strings.TrimSpace(f.SeatCol)

	if first == "" || last == "" || rowStr == "" || colStr == "" {
		return BookingRequest{}, domain.NewValidationError(MsgFieldsRequired)
	}

	row, errRow := strconv.Atoi(rowStr)
	col, errCol := strconv.Atoi(colStr)
	if errRow != nil || errCol != nil {
		return BookingRequest{}, domain.NewValidationError(MsgSeatNotNumeric)
	}

	req := BookingRequest{FirstName: first, LastName: last, Seat: domain.Seat{Row: row, Column: col}}
	if !req.Seat.Valid() {
		return BookingRequest{}, domain.NewValidationError(MsgSeatOutOfRange)
	}
	return req, nil
}

func SuccessMessage(r domain.Reservation) string {
	return fmt.Sprintf("Congratulations %s! Row: %d, Seat: %d is now reserved for you. Enjoy your trip!",
		r.PassengerFirstName, r.Seat.Row, r.Seat.Column)
}

func TicketMessage(r domain.Reservation) string {
	return "Your eticket number is: " + r.TicketCode
}
