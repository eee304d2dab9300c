package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/unisism/transport-api/internal/domain"
	"github.com/unisism/transport-api/internal/handler"
	"github.com/unisism/transport-api/internal/middleware"
	"github.com/unisism/transport-api/internal/service"
)

// ---- mock servicers --------------------------------------------------------
// Hand-written test doubles for the handler-side service interfaces.
// Set only the method fields your test needs; an unset method panics,
// pointing straight at the missing stub.

type mockTripServicer struct {
	create       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listUpcoming func(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error)
	listAll      func(ctx context.Context) ([]domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListUpcoming(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error) {
	return m.listUpcoming(ctx, filter)
}
func (m *mockTripServicer) ListAll(ctx context.Context) ([]domain.Trip, error) {
	return m.listAll(ctx)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockCandidacyServicer struct {
	submit           func(ctx context.Context, c domain.Candidacy) (domain.Candidacy, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Candidacy, error)
	rankedCandidates func(ctx context.Context, tripID uuid.UUID) ([]domain.RankedCandidate, error)
	assignTrack      func(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus) (domain.Candidacy, error)
	manifest         func(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestEntry, error)
	setBoarding      func(ctx context.Context, id uuid.UUID, status domain.BoardingStatus) (domain.Candidacy, error)
}

func (m *mockCandidacyServicer) Submit(ctx context.Context, c domain.Candidacy) (domain.Candidacy, error) {
	return m.submit(ctx, c)
}
func (m *mockCandidacyServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Candidacy, error) {
	return m.getByID(ctx, id)
}
func (m *mockCandidacyServicer) RankedCandidates(ctx context.Context, tripID uuid.UUID) ([]domain.RankedCandidate, error) {
	return m.rankedCandidates(ctx, tripID)
}
func (m *mockCandidacyServicer) AssignTrack(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus) (domain.Candidacy, error) {
	return m.assignTrack(ctx, id, status)
}
func (m *mockCandidacyServicer) Manifest(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestEntry, error) {
	return m.manifest(ctx, tripID)
}
func (m *mockCandidacyServicer) SetBoarding(ctx context.Context, id uuid.UUID, status domain.BoardingStatus) (domain.Candidacy, error) {
	return m.setBoarding(ctx, id, status)
}

var _ handler.CandidacyServicer = (*mockCandidacyServicer)(nil)

type mockAdmissionServicer struct {
	approve func(ctx context.Context, candidacyID uuid.UUID) (service.AdmissionResult, error)
	reject  func(ctx context.Context, candidacyID uuid.UUID) (domain.Candidacy, error)
}

func (m *mockAdmissionServicer) Approve(ctx context.Context, id uuid.UUID) (service.AdmissionResult, error) {
	return m.approve(ctx, id)
}
func (m *mockAdmissionServicer) Reject(ctx context.Context, id uuid.UUID) (domain.Candidacy, error) {
	return m.reject(ctx, id)
}

var _ handler.AdmissionServicer = (*mockAdmissionServicer)(nil)

type mockIntakeServicer struct {
	processDocument func(ctx context.Context, req service.IntakeRequest) (service.IntakeResult, error)
	enqueue         func(candidacyID uuid.UUID, data []byte, filename string) error
}

func (m *mockIntakeServicer) ProcessDocument(ctx context.Context, req service.IntakeRequest) (service.IntakeResult, error) {
	return m.processDocument(ctx, req)
}
func (m *mockIntakeServicer) Enqueue(candidacyID uuid.UUID, data []byte, filename string) error {
	return m.enqueue(candidacyID, data, filename)
}

var _ handler.IntakeServicer = (*mockIntakeServicer)(nil)

type mockPatientServicer struct {
	create  func(ctx context.Context, p domain.Patient) (domain.Patient, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Patient, error)
	list    func(ctx context.Context) ([]domain.Patient, error)
}

func (m *mockPatientServicer) Create(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	return m.create(ctx, p)
}
func (m *mockPatientServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	return m.getByID(ctx, id)
}
func (m *mockPatientServicer) List(ctx context.Context) ([]domain.Patient, error) {
	return m.list(ctx)
}

var _ handler.PatientServicer = (*mockPatientServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// serverMocks bundles one mock per servicer; zero-value mocks are fine for
// endpoints the test never hits.
type serverMocks struct {
	trips       *mockTripServicer
	candidacies *mockCandidacyServicer
	admissions  *mockAdmissionServicer
	intake      *mockIntakeServicer
	patients    *mockPatientServicer
}

// newTestRouter wires a Server with the given mocks into the real chi router,
// role middleware included — exactly how main.go wires it in production.
func newTestRouter(m serverMocks) http.Handler {
	if m.trips == nil {
		m.trips = &mockTripServicer{}
	}
	if m.candidacies == nil {
		m.candidacies = &mockCandidacyServicer{}
	}
	if m.admissions == nil {
		m.admissions = &mockAdmissionServicer{}
	}
	if m.intake == nil {
		m.intake = &mockIntakeServicer{}
	}
	if m.patients == nil {
		m.patients = &mockPatientServicer{}
	}
	srv := handler.NewServer(m.trips, m.candidacies, m.admissions, m.intake, m.patients)
	return srv.Routes()
}

// doJSON performs a JSON request against the router with the given role.
func doJSON(t *testing.T, router http.Handler, method, target, role string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set(middleware.RoleHeader, role)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a JSON response body into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// multipartDocument builds a multipart body with a "document" file plus the
// given extra form fields, returning the body and its content type.
func multipartDocument(t *testing.T, content []byte, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("document", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}
