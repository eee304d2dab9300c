// Package handler implements the HTTP handlers for the transport admission
// API. Handlers decode JSON, call the service layer, and map domain errors
// to HTTP status codes. Methods are split into resource-specific files
// (trip.go, candidacy.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/unisism/transport-api/internal/domain"
	"github.com/unisism/transport-api/internal/middleware"
	"github.com/unisism/transport-api/internal/service"
)

// TripServicer defines the trip catalog operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListUpcoming(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error)
	ListAll(ctx context.Context) ([]domain.Trip, error)
}

// CandidacyServicer defines the candidacy queue operations the handlers
// depend on.
type CandidacyServicer interface {
	Submit(ctx context.Context, c domain.Candidacy) (domain.Candidacy, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Candidacy, error)
	RankedCandidates(ctx context.Context, tripID uuid.UUID) ([]domain.RankedCandidate, error)
	AssignTrack(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus) (domain.Candidacy, error)
	Manifest(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestEntry, error)
	SetBoarding(ctx context.Context, id uuid.UUID, status domain.BoardingStatus) (domain.Candidacy, error)
}

// AdmissionServicer defines the transactional admission operations.
type AdmissionServicer interface {
	Approve(ctx context.Context, candidacyID uuid.UUID) (service.AdmissionResult, error)
	Reject(ctx context.Context, candidacyID uuid.UUID) (domain.Candidacy, error)
}

// IntakeServicer defines the document intake operations.
type IntakeServicer interface {
	ProcessDocument(ctx context.Context, req service.IntakeRequest) (service.IntakeResult, error)
	Enqueue(candidacyID uuid.UUID, data []byte, filename string) error
}

// PatientServicer defines the patient registration operations.
type PatientServicer interface {
	Create(ctx context.Context, patient domain.Patient) (domain.Patient, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Patient, error)
	List(ctx context.Context) ([]domain.Patient, error)
}

// Server holds the service dependencies for all API endpoints.
type Server struct {
	trips       TripServicer
	candidacies CandidacyServicer
	admissions  AdmissionServicer
	intake      IntakeServicer
	patients    PatientServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, candidacies CandidacyServicer, admissions AdmissionServicer, intake IntakeServicer, patients PatientServicer) *Server {
	return &Server{
		trips:       trips,
		candidacies: candidacies,
		admissions:  admissions,
		intake:      intake,
		patients:    patients,
	}
}

// Routes mounts every endpoint on a chi router, guarded by the role
// capability middleware. The read-only trip board and patient lookup are
// open to any recognized role via the weakest capability that covers them.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/trips", func(r chi.Router) {
		r.With(middleware.RequireRole(domain.OpManageTrips)).Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.With(middleware.RequireRole(domain.OpManageTrips)).Get("/all", s.ListAllTrips)
		r.Get("/{tripID}", s.GetTrip)
		r.With(middleware.RequireRole(domain.OpDecideAdmission)).Get("/{tripID}/candidates", s.ListCandidates)
		r.With(middleware.RequireRole(domain.OpViewManifest)).Get("/{tripID}/manifest", s.GetManifest)
	})

	r.Route("/candidacies", func(r chi.Router) {
		r.With(middleware.RequireRole(domain.OpSubmitCandidacy)).Post("/", s.CreateCandidacy)
		r.With(middleware.RequireRole(domain.OpDecideAdmission)).Get("/{candidacyID}", s.GetCandidacy)
		r.With(middleware.RequireRole(domain.OpDecideAdmission)).Post("/{candidacyID}/approve", s.ApproveCandidacy)
		r.With(middleware.RequireRole(domain.OpDecideAdmission)).Post("/{candidacyID}/reject", s.RejectCandidacy)
		r.With(middleware.RequireRole(domain.OpDecideAdmission)).Patch("/{candidacyID}/status", s.AssignTrack)
		r.With(middleware.RequireRole(domain.OpRecordBoarding)).Put("/{candidacyID}/boarding", s.SetBoarding)
		r.With(middleware.RequireRole(domain.OpSubmitCandidacy)).Post("/{candidacyID}/reclassify", s.ReclassifyCandidacy)
	})

	r.Route("/patients", func(r chi.Router) {
		r.With(middleware.RequireRole(domain.OpSubmitCandidacy)).Post("/", s.CreatePatient)
		r.With(middleware.RequireRole(domain.OpSubmitCandidacy)).Get("/", s.ListPatients)
		r.With(middleware.RequireRole(domain.OpSubmitCandidacy)).Get("/{patientID}", s.GetPatient)
	})

	r.With(middleware.RequireRole(domain.OpSubmitCandidacy)).Post("/intake/documents", s.IntakeDocument)

	return r
}

// urlUUID extracts and parses a UUID path parameter. The bool result is
// false when the value is malformed; the caller has already responded.
func urlUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
