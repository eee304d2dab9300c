package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/unisism/transport-api/internal/domain"
	"github.com/unisism/transport-api/internal/repo"
)

// ---- mock repos ------------------------------------------------------------
// Hand-written test doubles. Set only the method fields your test needs;
// calling an unset method panics, which points straight at the missing stub.

type mockTripRepo struct {
	create       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	getForUpdate func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	consumeSeats func(ctx context.Context, id uuid.UUID, n int) (domain.Trip, error)
	listUpcoming func(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error)
	listAll      func(ctx context.Context) ([]domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getForUpdate(ctx, id)
}
func (m *mockTripRepo) ConsumeSeats(ctx context.Context, id uuid.UUID, n int) (domain.Trip, error) {
	return m.consumeSeats(ctx, id, n)
}
func (m *mockTripRepo) ListUpcoming(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error) {
	return m.listUpcoming(ctx, filter)
}
func (m *mockTripRepo) ListAll(ctx context.Context) ([]domain.Trip, error) {
	return m.listAll(ctx)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockCandidacyRepo struct {
	create              func(ctx context.Context, c domain.Candidacy) (domain.Candidacy, error)
	getByID             func(ctx context.Context, id uuid.UUID) (domain.Candidacy, error)
	getForUpdate        func(ctx context.Context, id uuid.UUID) (domain.Candidacy, error)
	rankedByTrip        func(ctx context.Context, tripID uuid.UUID) ([]domain.RankedCandidate, error)
	setDecision         func(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus, approved bool) (domain.Candidacy, error)
	setStatus           func(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus) (domain.Candidacy, error)
	setBoarding         func(ctx context.Context, id uuid.UUID, status domain.BoardingStatus) (domain.Candidacy, error)
	applyClassification func(ctx context.Context, id uuid.UUID, priority int, procedure, note string) (domain.Candidacy, error)
	manifestByTrip      func(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestEntry, error)
}

func (m *mockCandidacyRepo) Create(ctx context.Context, c domain.Candidacy) (domain.Candidacy, error) {
	return m.create(ctx, c)
}
func (m *mockCandidacyRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Candidacy, error) {
	return m.getByID(ctx, id)
}
func (m *mockCandidacyRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Candidacy, error) {
	return m.getForUpdate(ctx, id)
}
func (m *mockCandidacyRepo) RankedByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.RankedCandidate, error) {
	return m.rankedByTrip(ctx, tripID)
}
func (m *mockCandidacyRepo) SetDecision(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus, approved bool) (domain.Candidacy, error) {
	return m.setDecision(ctx, id, status, approved)
}
func (m *mockCandidacyRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus) (domain.Candidacy, error) {
	return m.setStatus(ctx, id, status)
}
func (m *mockCandidacyRepo) SetBoarding(ctx context.Context, id uuid.UUID, status domain.BoardingStatus) (domain.Candidacy, error) {
	return m.setBoarding(ctx, id, status)
}
func (m *mockCandidacyRepo) ApplyClassification(ctx context.Context, id uuid.UUID, priority int, procedure, note string) (domain.Candidacy, error) {
	return m.applyClassification(ctx, id, priority, procedure, note)
}
func (m *mockCandidacyRepo) ManifestByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestEntry, error) {
	return m.manifestByTrip(ctx, tripID)
}

var _ repo.CandidacyRepo = (*mockCandidacyRepo)(nil)

type mockPatientRepo struct {
	create          func(ctx context.Context, p domain.Patient) (domain.Patient, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Patient, error)
	getByNationalID func(ctx context.Context, nationalID string) (domain.Patient, error)
	list            func(ctx context.Context) ([]domain.Patient, error)
}

func (m *mockPatientRepo) Create(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	return m.create(ctx, p)
}
func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	return m.getByID(ctx, id)
}
func (m *mockPatientRepo) GetByNationalID(ctx context.Context, nationalID string) (domain.Patient, error) {
	return m.getByNationalID(ctx, nationalID)
}
func (m *mockPatientRepo) List(ctx context.Context) ([]domain.Patient, error) {
	return m.list(ctx)
}

var _ repo.PatientRepo = (*mockPatientRepo)(nil)

// fakeStore satisfies repo.AdmissionStore without a database: it hands the
// callback the given mocks and "commits" by returning the callback's error.
type fakeStore struct {
	trips       repo.TripRepo
	candidacies repo.CandidacyRepo
}

func (s *fakeStore) InTx(_ context.Context, fn func(trips repo.TripRepo, candidacies repo.CandidacyRepo) error) error {
	return fn(s.trips, s.candidacies)
}

var _ repo.AdmissionStore = (*fakeStore)(nil)
