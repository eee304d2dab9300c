package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/unisism/transport-api/internal/domain"
)

// CreatePatientRequest is the JSON body for POST /patients.
type CreatePatientRequest struct {
	NationalID string `json:"national_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

// PatientResponse is the JSON representation of a patient.
type PatientResponse struct {
	ID         string    `json:"patient_id"`
	NationalID string    `json:"national_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreatePatient handles POST /patients.
func (s *Server) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	created, err := s.patients.Create(r.Context(), domain.Patient{
		NationalID: req.NationalID,
		Name:       req.Name,
		Phone:      req.Phone,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, patientToResponse(created))
}

// GetPatient handles GET /patients/{patientID}.
func (s *Server) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "patientID")
	if !ok {
		return
	}

	patient, err := s.patients.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, patientToResponse(patient))
}

// ListPatients handles GET /patients.
func (s *Server) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := s.patients.List(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]PatientResponse, len(patients))
	for i, p := range patients {
		out[i] = patientToResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func patientToResponse(p domain.Patient) PatientResponse {
	return PatientResponse{
		ID:         p.ID.String(),
		NationalID: p.NationalID,
		Name:       p.Name,
		Phone:      p.Phone,
		CreatedAt:  p.CreatedAt,
	}
}
