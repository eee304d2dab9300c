package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/unisism/transport-api/internal/domain"
)

// CreateCandidacyRequest is the JSON body for POST /candidacies.
// Priority defaults to 1 when omitted; out-of-range values are clamped by
// the service.
type CreateCandidacyRequest struct {
	PatientID uuid.UUID  `json:"patient_id"`
	TripID    *uuid.UUID `json:"trip_id,omitempty"`
	Priority  int        `json:"priority"`
	Companion bool       `json:"companion"`
	Procedure string     `json:"procedure_text"`
}

// CandidacyResponse is the JSON representation of a candidacy.
type CandidacyResponse struct {
	ID             string    `json:"candidacy_id"`
	PatientID      string    `json:"patient_id"`
	TripID         *string   `json:"trip_id,omitempty"`
	Priority       int       `json:"priority"`
	Companion      bool      `json:"companion"`
	SeatsRequested int       `json:"seats_requested"`
	Procedure      string    `json:"procedure_text,omitempty"`
	Status         string    `json:"status"`
	BoardingStatus string    `json:"boarding_status"`
	ClassifierNote string    `json:"classifier_note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RankedCandidateResponse is one row of the manager's ranked queue view.
type RankedCandidateResponse struct {
	CandidacyID    string `json:"candidacy_id"`
	PatientName    string `json:"patient_name"`
	NationalID     string `json:"national_id"`
	Priority       int    `json:"priority"`
	Procedure      string `json:"procedure_text,omitempty"`
	SeatsRequested int    `json:"seats_requested"`
	Companion      bool   `json:"companion"`
}

// CreateCandidacy handles POST /candidacies.
// The seat is not reserved here; the candidacy only joins the queue.
func (s *Server) CreateCandidacy(w http.ResponseWriter, r *http.Request) {
	var req CreateCandidacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if req.PatientID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "validation_error", "patient_id is required")
		return
	}

	created, err := s.candidacies.Submit(r.Context(), domain.Candidacy{
		PatientID: req.PatientID,
		TripID:    req.TripID,
		Priority:  req.Priority,
		Companion: req.Companion,
		Procedure: req.Procedure,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, candidacyToResponse(created))
}

// GetCandidacy handles GET /candidacies/{candidacyID}.
func (s *Server) GetCandidacy(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "candidacyID")
	if !ok {
		return
	}

	c, err := s.candidacies.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, candidacyToResponse(c))
}

// ListCandidates handles GET /trips/{tripID}/candidates — the queue for one
// trip, ordered by priority (highest first) with earliest request breaking
// ties.
func (s *Server) ListCandidates(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlUUID(w, r, "tripID")
	if !ok {
		return
	}

	ranked, err := s.candidacies.RankedCandidates(r.Context(), tripID)
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]RankedCandidateResponse, len(ranked))
	for i, rc := range ranked {
		out[i] = RankedCandidateResponse{
			CandidacyID:    rc.ID.String(),
			PatientName:    rc.PatientName,
			NationalID:     rc.PatientNationalID,
			Priority:       rc.Priority,
			Procedure:      rc.Procedure,
			SeatsRequested: rc.RequiredSeats(),
			Companion:      rc.Companion,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// AssignTrackRequest is the JSON body for PATCH /candidacies/{id}/status.
type AssignTrackRequest struct {
	Status string `json:"status"`
}

// AssignTrack handles PATCH /candidacies/{candidacyID}/status — the manual
// move onto the waitlist or cost-assistance track.
func (s *Server) AssignTrack(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "candidacyID")
	if !ok {
		return
	}

	var req AssignTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	status, err := domain.ParseCandidacyStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "unknown status value")
		return
	}

	c, err := s.candidacies.AssignTrack(r.Context(), id, status)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, candidacyToResponse(c))
}

// ManifestResponse is one row of the driver's boarding list.
type ManifestResponse struct {
	CandidacyID    string `json:"candidacy_id"`
	PatientName    string `json:"patient_name"`
	NationalID     string `json:"national_id"`
	Companion      bool   `json:"companion"`
	BoardingStatus string `json:"boarding_status"`
}

// GetManifest handles GET /trips/{tripID}/manifest — only approved
// passengers appear.
func (s *Server) GetManifest(w http.ResponseWriter, r *http.Request) {
	tripID, ok := urlUUID(w, r, "tripID")
	if !ok {
		return
	}

	entries, err := s.candidacies.Manifest(r.Context(), tripID)
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]ManifestResponse, len(entries))
	for i, e := range entries {
		out[i] = ManifestResponse{
			CandidacyID:    e.CandidacyID.String(),
			PatientName:    e.PatientName,
			NationalID:     e.PatientNationalID,
			Companion:      e.Companion,
			BoardingStatus: string(e.BoardingStatus),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// SetBoardingRequest is the JSON body for PUT /candidacies/{id}/boarding.
type SetBoardingRequest struct {
	Status string `json:"status"`
}

// SetBoarding handles PUT /candidacies/{candidacyID}/boarding — the
// driver's check-in.
func (s *Server) SetBoarding(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "candidacyID")
	if !ok {
		return
	}

	var req SetBoardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	status, err := domain.ParseBoardingStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "unknown boarding status")
		return
	}

	c, err := s.candidacies.SetBoarding(r.Context(), id, status)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, candidacyToResponse(c))
}

func candidacyToResponse(c domain.Candidacy) CandidacyResponse {
	resp := CandidacyResponse{
		ID:             c.ID.String(),
		PatientID:      c.PatientID.String(),
		Priority:       c.Priority,
		Companion:      c.Companion,
		SeatsRequested: c.RequiredSeats(),
		Procedure:      c.Procedure,
		Status:         string(c.Status),
		BoardingStatus: string(c.BoardingStatus),
		ClassifierNote: c.ClassifierNote,
		CreatedAt:      c.CreatedAt,
	}
	if c.TripID != nil {
		id := c.TripID.String()
		resp.TripID = &id
	}
	return resp
}
