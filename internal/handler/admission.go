package handler

import (
	"net/http"
)

// AdmissionResponse is the JSON result of an approve/reject decision.
// SeatsRemaining is present only for approvals.
type AdmissionResponse struct {
	Status         string `json:"status"`
	SeatsRemaining *int   `json:"seats_remaining,omitempty"`
}

// ApproveCandidacy handles POST /candidacies/{candidacyID}/approve.
// On success the trip's seats are consumed and the candidacy is Approved,
// committed as one transaction. Capacity exhaustion maps to 400 with code
// insufficient_capacity; an already-decided candidacy maps to 409.
func (s *Server) ApproveCandidacy(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "candidacyID")
	if !ok {
		return
	}

	result, err := s.admissions.Approve(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	remaining := result.SeatsRemaining
	writeJSON(w, http.StatusOK, AdmissionResponse{
		Status:         string(result.Candidacy.Status),
		SeatsRemaining: &remaining,
	})
}

// RejectCandidacy handles POST /candidacies/{candidacyID}/reject.
// Rejection never touches trip capacity.
func (s *Server) RejectCandidacy(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "candidacyID")
	if !ok {
		return
	}

	c, err := s.admissions.Reject(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AdmissionResponse{Status: string(c.Status)})
}
