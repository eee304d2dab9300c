package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/unisism/transport-api/internal/domain"
	"github.com/unisism/transport-api/internal/repo"
)

// CandidacyService implements the candidacy queue: intake of seat requests,
// the manager's priority-ranked candidate view, manual track assignment,
// and the driver's boarding manifest. It holds patient and trip repos
// because submitting a candidacy requires both referenced records to exist.
type CandidacyService struct {
	patients    repo.PatientRepo
	trips       repo.TripRepo
	candidacies repo.CandidacyRepo
}

// NewCandidacyService constructs a CandidacyService backed by the provided repos.
func NewCandidacyService(patients repo.PatientRepo, trips repo.TripRepo, candidacies repo.CandidacyRepo) *CandidacyService {
	return &CandidacyService{patients: patients, trips: trips, candidacies: candidacies}
}

// Submit creates a candidacy in Awaiting_Analysis. The seat is NOT reserved
// here — the request only enters the queue for the manager's decision.
// Priority outside 1..5 (including the classifier's failure value 0) is
// clamped to the safe default.
// Returns domain.ErrNotFound if the patient or the referenced trip is absent.
func (s *CandidacyService) Submit(ctx context.Context, c domain.Candidacy) (domain.Candidacy, error) {
	if _, err := s.patients.GetByID(ctx, c.PatientID); err != nil {
		return domain.Candidacy{}, fmt.Errorf("service.CandidacyService.Submit: patient: %w", err)
	}
	if c.TripID != nil {
		if _, err := s.trips.GetByID(ctx, *c.TripID); err != nil {
			return domain.Candidacy{}, fmt.Errorf("service.CandidacyService.Submit: trip: %w", err)
		}
	}

	c.Priority = domain.ClampPriority(c.Priority)
	result, err := s.candidacies.Create(ctx, c)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("service.CandidacyService.Submit: %w", err)
	}
	return result, nil
}

// GetByID returns a single candidacy by ID.
func (s *CandidacyService) GetByID(ctx context.Context, id uuid.UUID) (domain.Candidacy, error) {
	result, err := s.candidacies.GetByID(ctx, id)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("service.CandidacyService.GetByID: %w", err)
	}
	return result, nil
}

// RankedCandidates returns the awaiting-analysis queue for a trip, ordered
// by priority descending with creation time (earliest first) breaking ties.
// The read is a snapshot — the authoritative capacity check happens at
// approval time, not here.
// Returns domain.ErrNotFound if the trip does not exist.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CandidacyService) RankedCandidates(ctx context.Context, tripID uuid.UUID) ([]domain.RankedCandidate, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.CandidacyService.RankedCandidates: trip: %w", err)
	}
	ranked, err := s.candidacies.RankedByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.CandidacyService.RankedCandidates: %w", err)
	}
	if ranked == nil {
		return []domain.RankedCandidate{}, nil
	}
	return ranked, nil
}

// AssignTrack moves an awaiting-analysis candidacy onto the waitlist or the
// cost-assistance track. This is a direct status write — it never interacts
// with trip capacity and is not part of the admission transaction.
// Returns domain.ErrValidation for any other target status and
// domain.ErrInvalidState when the candidacy has already been decided.
func (s *CandidacyService) AssignTrack(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus) (domain.Candidacy, error) {
	if status != domain.StatusWaitlisted && status != domain.StatusCostAssistance {
		return domain.Candidacy{}, fmt.Errorf("%w: status must be %s or %s",
			domain.ErrValidation, domain.StatusWaitlisted, domain.StatusCostAssistance)
	}

	c, err := s.candidacies.GetByID(ctx, id)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("service.CandidacyService.AssignTrack: %w", err)
	}
	if c.Status != domain.StatusAwaitingAnalysis {
		return domain.Candidacy{}, fmt.Errorf("service.CandidacyService.AssignTrack: candidacy is %s: %w", c.Status, domain.ErrInvalidState)
	}

	result, err := s.candidacies.SetStatus(ctx, id, status)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("service.CandidacyService.AssignTrack: %w", err)
	}
	return result, nil
}

// Manifest returns the driver's boarding list for a trip: every approved
// candidacy with its patient and boarding check-in status.
// Returns domain.ErrNotFound if the trip does not exist.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CandidacyService) Manifest(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestEntry, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.CandidacyService.Manifest: trip: %w", err)
	}
	entries, err := s.candidacies.ManifestByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.CandidacyService.Manifest: %w", err)
	}
	if entries == nil {
		return []domain.ManifestEntry{}, nil
	}
	return entries, nil
}

// SetBoarding records the driver's check-in (Boarded / Absent / back to
// Pending) for an approved candidacy. Boarding state never feeds back into
// trip capacity.
// Returns domain.ErrInvalidState when the candidacy is not Approved.
func (s *CandidacyService) SetBoarding(ctx context.Context, id uuid.UUID, status domain.BoardingStatus) (domain.Candidacy, error) {
	c, err := s.candidacies.GetByID(ctx, id)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("service.CandidacyService.SetBoarding: %w", err)
	}
	if c.Status != domain.StatusApproved {
		return domain.Candidacy{}, fmt.Errorf("service.CandidacyService.SetBoarding: candidacy is %s: %w", c.Status, domain.ErrInvalidState)
	}

	result, err := s.candidacies.SetBoarding(ctx, id, status)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("service.CandidacyService.SetBoarding: %w", err)
	}
	return result, nil
}
