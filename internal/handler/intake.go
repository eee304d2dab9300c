package handler

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/unisism/transport-api/internal/service"
)

// maxDocumentMemory caps the multipart parse buffer; larger files spill to
// temporary storage. The overall request size is bounded by the
// max-body-size middleware.
const maxDocumentMemory = 4 << 20

// IntakeResponse summarizes a processed document upload: the candidacy that
// entered the queue and what the classifier extracted.
type IntakeResponse struct {
	Candidacy    CandidacyResponse `json:"candidacy"`
	Patient      PatientResponse   `json:"patient"`
	DocumentType string            `json:"document_type"`
	Priority     int               `json:"priority"`
	Fields       map[string]string `json:"fields,omitempty"`
}

// IntakeDocument handles POST /intake/documents (multipart form).
// Form fields: "document" (file, required), "patient_id" (optional UUID),
// "trip_id" (optional UUID), "companion" (optional, "true").
// Classification failure never rejects the upload — the candidacy enters
// the queue at the default priority.
func (s *Server) IntakeDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDocumentMemory); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "document file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "could not read document")
		return
	}

	req := service.IntakeRequest{
		Data:      data,
		Filename:  header.Filename,
		Companion: r.FormValue("companion") == "true",
	}

	if raw := r.FormValue("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "patient_id must be a valid UUID")
			return
		}
		req.PatientID = id
	}
	if raw := r.FormValue("trip_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "trip_id must be a valid UUID")
			return
		}
		req.TripID = &id
	}

	result, err := s.intake.ProcessDocument(r.Context(), req)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, IntakeResponse{
		Candidacy:    candidacyToResponse(result.Candidacy),
		Patient:      patientToResponse(result.Patient),
		DocumentType: string(result.Classification.DocumentType),
		Priority:     result.Candidacy.Priority,
		Fields:       result.Classification.Fields,
	})
}

// ReclassifyCandidacy handles POST /candidacies/{candidacyID}/reclassify
// (multipart form with a "document" file). The document is queued for
// background classification; the response returns immediately. A full
// queue maps to 503 — the candidacy keeps its current priority.
func (s *Server) ReclassifyCandidacy(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "candidacyID")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxDocumentMemory); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "document file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "could not read document")
		return
	}

	if err := s.intake.Enqueue(id, data, header.Filename); err != nil {
		writeError(w, http.StatusServiceUnavailable, "queue_full", "classification queue is full, try again later")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
