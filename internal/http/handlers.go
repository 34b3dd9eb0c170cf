package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/robertarktes/flight-seat-reservations/internal/auth"
	"github.com/robertarktes/flight-seat-reservations/internal/booking"
	"github.com/robertarktes/flight-seat-reservations/internal/domain"
	"github.com/robertarktes/flight-seat-reservations/internal/observability"
)

const maxBodyBytes = 1 << 16

// Pinger reports whether the reservation store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	engine *booking.Engine
	auth   *auth.Authenticator
	store  Pinger
	logger observability.Logger
}

func NewHandlers(engine *booking.Engine, authn *auth.Authenticator, store Pinger, logger observability.Logger) *Handlers {
	return &Handlers{engine: engine, auth: authn, store: store, logger: logger}
}

type reservationJSON struct {
	ID         int64     `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	SeatRow    int       `json:"seat_row"`
	SeatCol    int       `json:"seat_col"`
	TicketCode string    `json:"ticket_code"`
	CreatedAt  time.Time `json:"created_at"`
}

func toJSON(r domain.Reservation) reservationJSON {
	return reservationJSON{
		ID:         r.ID,
		FirstName:  r.PassengerFirstName,
		LastName:   r.PassengerLastName,
		SeatRow:    r.Seat.Row,
		SeatCol:    r.Seat.Column,
		TicketCode: r.TicketCode,
		CreatedAt:  r.CreatedAt,
	}
}

func rosterJSON(rs []domain.Reservation) []reservationJSON {
	out := make([]reservationJSON, 0, len(rs))
	for _, r := range rs {
		out = append(out, toJSON(r))
	}
	return out
}

func (h *Handlers) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var form booking.BookingForm
	if !decodeJSON(w, r, &form) {
		observability.BookingsTotal.WithLabelValues(observability.OutcomeInvalid).Inc()
		return
	}

	req, err := booking.ParseBookingForm(form)
	if err == nil {
		var res domain.Reservation
		res, err = h.engine.Book(r.Context(), req)
		if err == nil {
			observability.BookingsTotal.WithLabelValues(observability.OutcomeCreated).Inc()
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"message":        booking.SuccessMessage(res),
				"ticket_message": booking.TicketMessage(res),
				"reservation":    toJSON(res),
			})
			return
		}
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		observability.BookingsTotal.WithLabelValues(observability.OutcomeInvalid).Inc()
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, domain.ErrConflict):
		observability.BookingsTotal.WithLabelValues(observability.OutcomeConflict).Inc()
		writeError(w, http.StatusConflict, booking.MsgSeatTaken)
	default:
		observability.BookingsTotal.WithLabelValues(observability.OutcomeError).Inc()
		h.internalError(w, r, "booking failed", err)
	}
}

func (h *Handlers) SeatingChart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.engine.SeatingChart(r.Context())
	if err != nil {
		h.internalError(w, r, "seating chart failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"seating_chart": chart.Strings()})
}

func (h *Handlers) CostMatrix(w http.ResponseWriter, r *http.Request) {
	m := h.engine.CostMatrix()
	rows := make([][]int, len(m))
	for i := range m {
		rows[i] = m[i][:]
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cost_matrix": rows})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.auth.Login(r.Context(), req.Username, req.Password)
	var verr *domain.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":    auth.MsgLoggedIn,
			"token":      session.Token,
			"expires_at": session.ExpiresAt.Format(time.RFC3339),
		})
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, auth.MsgInvalidCredentials)
	default:
		h.internalError(w, r, "login failed", err)
	}
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), adminToken(r.Context())); err != nil {
		h.internalError(w, r, "logout failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": auth.MsgLoggedOut})
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.engine.Dashboard(r.Context(), adminToken(r.Context()))
	if err != nil {
		h.adminError(w, r, "dashboard failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"seating_chart": d.Chart.Strings(),
		"total_revenue": d.TotalRevenue,
		"reservations":  rosterJSON(d.Reservations),
	})
}

func (h *Handlers) Roster(w http.ResponseWriter, r *http.Request) {
	rs, err := h.engine.Roster(r.Context(), adminToken(r.Context()))
	if err != nil {
		h.adminError(w, r, "roster failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reservations": rosterJSON(rs)})
}

func (h *Handlers) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}
	if err := h.engine.Cancel(r.Context(), adminToken(r.Context()), id); err != nil {
		h.adminError(w, r, "cancel failed", err)
		return
	}
	LoggerFromContext(r.Context(), h.logger).WithField("reservation_id", id).Info("reservation cancelled")
	writeJSON(w, http.StatusOK, map[string]string{"message": booking.MsgReservationDeleted})
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		LoggerFromContext(r.Context(), h.logger).Warn("store not ready: ", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

func (h *Handlers) adminError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, domain.ErrUnauthorized) {
		writeError(w, http.StatusUnauthorized, auth.MsgLoginRequired)
		return
	}
	h.internalError(w, r, msg, err)
}

func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	LoggerFromContext(r.Context(), h.logger).Error(msg+": ", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// decodeJSON reads a size capped JSON body into v and writes the error
// response itself when that fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid JSON body")
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
