package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/unisism/transport-api/internal/domain"
)

// CreateTripRequest is the JSON body for POST /trips.
type CreateTripRequest struct {
	Destination string    `json:"destination"`
	DepartureAt time.Time `json:"departure_at"`
	Plate       string    `json:"plate"`
	Driver      string    `json:"driver"`
	Capacity    int       `json:"capacity"`
}

// TripResponse is the JSON representation of a trip on the board, with the
// derived seat availability and status label.
type TripResponse struct {
	ID             string    `json:"trip_id"`
	Destination    string    `json:"destination"`
	DepartureAt    time.Time `json:"departure_at"`
	Plate          string    `json:"plate"`
	Driver         string    `json:"driver"`
	CapacityTotal  int       `json:"capacity_total"`
	SeatsAvailable int       `json:"seats_available"`
	Status         string    `json:"status"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	created, err := s.trips.Create(r.Context(), domain.Trip{
		Destination:   req.Destination,
		DepartureAt:   req.DepartureAt,
		Plate:         req.Plate,
		Driver:        req.Driver,
		CapacityTotal: req.Capacity,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips — the upcoming-departures board.
// Supports ?destination= (case-insensitive substring) and ?date=YYYY-MM-DD.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	filter := domain.TripFilter{Destination: r.URL.Query().Get("destination")}

	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
			return
		}
		filter.Date = &day
	}

	trips, err := s.trips.ListUpcoming(r.Context(), filter)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripsToResponse(trips))
}

// ListAllTrips handles GET /trips/all — the fleet manager's full board,
// including departed trips, most recent first.
func (s *Server) ListAllTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListAll(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripsToResponse(trips))
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

func tripToResponse(t domain.Trip) TripResponse {
	return TripResponse{
		ID:             t.ID.String(),
		Destination:    t.Destination,
		DepartureAt:    t.DepartureAt,
		Plate:          t.Plate,
		Driver:         t.Driver,
		CapacityTotal:  t.CapacityTotal,
		SeatsAvailable: t.SeatsAvailable(),
		Status:         t.SeatStatus(),
	}
}

func tripsToResponse(trips []domain.Trip) []TripResponse {
	out := make([]TripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	return out
}
