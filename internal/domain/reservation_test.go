package domain_test

import (
	"testing"

	"github.com/robertarktes/flight-seat-reservations/internal/domain"
)

func TestGenerateTicketCode(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"al", "AiLnfotc4320"},
		{"AL", "AiLnfotc4320"},
		{"", "infotc4320"},
		{"alexanderx", "AiLnEfXoAtNcD4E3R2X0"},
		{"alexanderxy", "AiLnEfXoAtNcD4E3R2X0Y"},
		{"ß", "SSinfotc4320"},
		{"İa", "Ii\u0307nAfotc4320"},
		{"ﬁx", "FIiXnfotc4320"},
		{"Émile", "ÉiMnIfLoEtc4320"},
	}
	for _, tc := range cases {
		if got := domain.GenerateTicketCode(tc.name); got != tc.want {
			t.Errorf("GenerateTicketCode(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestGenerateTicketCode_Deterministic(t *testing.T) {
	first := domain.GenerateTicketCode("al")
	for i := 0; i < 10; i++ {
		if got := domain.GenerateTicketCode("al"); got != first {
			t.Fatalf("call %d returned %q, first call returned %q", i, got, first)
		}
	}
}

func TestGenerateTicketCode_NameLongerThanBase(t *testing.T) {
	ten := domain.GenerateTicketCode("alexanderx")
	eleven := domain.GenerateTicketCode("alexanderxy")
	if eleven != ten+"Y" {
		t.Errorf("expected %q + \"Y\", got %q", ten, eleven)
	}
}

func TestNewBooking(t *testing.T) {
	nr := domain.NewBooking("Al", "Smith", domain.Seat{Row: 3, Column: 2})
	if nr.TicketCode != "AiLnfotc4320" {
		t.Errorf("unexpected ticket code %q", nr.TicketCode)
	}
	if nr.Seat != (domain.Seat{Row: 3, Column: 2}) {
		t.Errorf("unexpected seat %+v", nr.Seat)
	}
}

func TestSeatValid(t *testing.T) {
	valid := []domain.Seat{{1, 1}, {12, 4}, {6, 3}}
	invalid := []domain.Seat{{0, 1}, {13, 1}, {1, 0}, {1, 5}, {-1, -1}}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %+v to be valid", s)
		}
	}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("expected %+v to be invalid", s)
		}
	}
}
