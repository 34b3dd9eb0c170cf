package booking_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/flight-seat-reservations/internal/booking"
	"github.com/robertarktes/flight-seat-reservations/internal/domain"
)

func TestParseBookingForm(t *testing.T) {
	cases := []struct {
		name    string
		form    booking.BookingForm
		wantMsg string
		want    booking.BookingRequest
	}{
		{
			name: "valid with whitespace",
			form: booking.BookingForm{FirstName: "  Al ", LastName: " Smith", SeatRow: " 3 ", SeatCol: "2"},
			want: booking.BookingRequest{FirstName: "Al", LastName: "Smith", Seat: domain.Seat{Row: 3, Column: 2}},
		},
		{name: "blank first name", form: booking.BookingForm{FirstName: "   ", LastName: "Smith", SeatRow: "1", SeatCol: "1"}, wantMsg: booking.MsgFieldsRequired},
		{name: "missing column", form: booking.BookingForm{FirstName: "Al", LastName: "Smith", SeatRow: "1"}, wantMsg: booking.MsgFieldsRequired},
		{name: "non numeric row", form: booking.BookingForm{FirstName: "Al", LastName: "Smith", SeatRow: "one", SeatCol: "1"}, wantMsg: booking.MsgSeatNotNumeric},
		{name: "non numeric column", form: booking.BookingForm{FirstName: "Al", LastName: "Smith", SeatRow: "1", SeatCol: "1.5"}, wantMsg: booking.MsgSeatNotNumeric},
		{name: "digit separator", form: booking.BookingForm{FirstName: "Al", LastName: "Smith", SeatRow: "1_2", SeatCol: "1"}, wantMsg: booking.MsgSeatNotNumeric},
		{name: "full-width digit", form: booking.BookingForm{FirstName: "Al", LastName: "Smith", SeatRow: "３", SeatCol: "1"}, wantMsg: booking.MsgSeatNotNumeric},
		{
			name: "explicit sign",
			form: booking.BookingForm{FirstName: "Al", LastName: "Smith", SeatRow: "+4", SeatCol: "2"},
			want: booking.BookingRequest{FirstName: "Al", LastName: "Smith", Seat: domain.Seat{Row: 4, Column: 2}},
		},
		{name: "row zero", form: booking.BookingForm{FirstName: "Al", LastName: "Smith", SeatRow: "0", SeatCol: "1"}, wantMsg: booking.MsgSeatOutOfRange},
		{name: "row thirteen", form: booking.BookingForm{FirstName: "Al", LastName: "Smith", SeatRow: "13", SeatCol: "1"}, wantMsg: booking.MsgSeatOutOfRange},
		{name: "column zero", form: booking.BookingForm{FirstName: "Al", LastName: "Smith", SeatRow: "1", SeatCol: "0"}, wantMsg: booking.MsgSeatOutOfRange},
		{name: "column five", form: booking.BookingForm{FirstName: "Al", LastName: "Smith", SeatRow: "1", SeatCol: "5"}, wantMsg: booking.MsgSeatOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := booking.ParseBookingForm(tc.form)
			if tc.wantMsg == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if got != tc.want {
					t.Errorf("got %+v, want %+v", got, tc.want)
				}
				return
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Message != tc.wantMsg {
				t.Errorf("got message %q, want %q", verr.Message, tc.wantMsg)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	r := domain.Reservation{PassengerFirstName: "Al", Seat: domain.Seat{Row: 4, Column: 1}, TicketCode: "AiLnfotc4320"}
	if got, want := booking.SuccessMessage(r), "Congratulations Al! Row: 4, Seat: 1 is now reserved for you. Enjoy your trip!"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := booking.TicketMessage(r), "Your eticket number is: AiLnfotc4320"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
