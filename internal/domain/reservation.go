package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ticketBase = "infotc4320"

// GenerateTicketCode interleaves the upper-cased letters of firstName with
// the fixed base string. The result depends on nothing but firstName.
// Case mapping is the full Unicode one, so a letter may expand ("ß" upper
// cases to "SS") and the interleaving follows the expanded form.
func GenerateTicketCode(firstName string) string {
	upper := cases.Upper(language.Und)
	name := []rune(cases.Lower(language.Und).String(firstName))
	base := []rune(ticketBase)

	var b strings.Builder
	for i := 0; i < max(len(name), len(base)); i++ {
		if i < len(name) {
			b.WriteString(upper.String(string(name[i])))
		}
		if i < len(base) {
			b.WriteRune(base[i])
		}
	}
	return b.String()
}

func NewBooking(firstName, lastName string, seat Seat) NewReservation {
	return NewReservation{
		PassengerFirstName: firstName,
		PassengerLastName:  lastName,
		Seat:               seat,
		TicketCode:         GenerateTicketCode(firstName),
	}
}
