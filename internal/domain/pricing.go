package domain

type CostMatrix [Rows][Columns]int

var columnPrices = [Columns]int{100, 75, 50, 100}

// Prices returns the fixed fare table. Every row carries the same column
// prices.
func Prices() CostMatrix {
	var m CostMatrix
	for r := range m {
		m[r] = columnPrices
	}
	return m
}

// Price is the fare of a seat on the grid. The seat must be valid.
func (m CostMatrix) Price(s Seat) int {
	return m[s.Row-1][s.Column-1]
}

// Revenue sums the fare of every reservation.
func (m CostMatrix) Revenue(reservations []Reservation) int {
	total := 0
	for _, r := range reservations {
		total += m.Price(r.Seat)
	}
	return total
}
