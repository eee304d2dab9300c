package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/unisism/transport-api/internal/domain"
	"github.com/unisism/transport-api/internal/repo"
)

// AdmissionService is the transactional core: it confirms or declines a
// candidacy against its trip's remaining capacity. Approve is the only
// operation in the system allowed to mutate capacity_used.
//
// Serialization is per trip: both the candidacy and the trip row are locked
// FOR UPDATE for the duration of the transaction, always in that order, so
// concurrent approvals for the same trip queue up behind the row lock while
// approvals for different trips proceed independently.
type AdmissionService struct {
	store repo.AdmissionStore
}

// NewAdmissionService constructs an AdmissionService over the given store.
func NewAdmissionService(store repo.AdmissionStore) *AdmissionService {
	return &AdmissionService{store: store}
}

// AdmissionResult reports the outcome of a committed approval.
type AdmissionResult struct {
	Candidacy      domain.Candidacy
	SeatsRemaining int
}

// Approve runs the capacity-checked admission transaction:
//
//	lock candidacy -> verify Awaiting_Analysis -> lock trip ->
//	check seats -> consume seats + mark Approved -> commit.
//
// Returns domain.ErrNotFound if the candidacy is absent,
// domain.ErrInvalidState if it is not awaiting analysis (re-approving an
// approved candidacy is rejected, never silently accepted), and
// domain.ErrInsufficientCapacity if the trip cannot seat the request — in
// which case nothing changes and the candidacy stays in the queue for the
// manager to reject or reroute to the cost-assistance track.
func (s *AdmissionService) Approve(ctx context.Context, candidacyID uuid.UUID) (AdmissionResult, error) {
	var result AdmissionResult

	err := s.store.InTx(ctx, func(trips repo.TripRepo, candidacies repo.CandidacyRepo) error {
		c, err := candidacies.GetForUpdate(ctx, candidacyID)
		if err != nil {
			return fmt.Errorf("service.AdmissionService.Approve: %w", err)
		}
		if c.Status != domain.StatusAwaitingAnalysis {
			return fmt.Errorf("service.AdmissionService.Approve: candidacy is %s: %w", c.Status, domain.ErrInvalidState)
		}
		if c.TripID == nil {
			return fmt.Errorf("service.AdmissionService.Approve: no trip chosen: %w", domain.ErrInvalidState)
		}

		trip, err := trips.GetForUpdate(ctx, *c.TripID)
		if err != nil {
			return fmt.Errorf("service.AdmissionService.Approve: %w", err)
		}

		required := c.RequiredSeats()
		if trip.SeatsAvailable() < required {
			return fmt.Errorf("service.AdmissionService.Approve: %d seat(s) needed, %d available: %w",
				required, trip.SeatsAvailable(), domain.ErrInsufficientCapacity)
		}

		trip, err = trips.ConsumeSeats(ctx, trip.ID, required)
		if err != nil {
			return fmt.Errorf("service.AdmissionService.Approve: %w", err)
		}
		c, err = candidacies.SetDecision(ctx, c.ID, domain.StatusApproved, true)
		if err != nil {
			return fmt.Errorf("service.AdmissionService.Approve: %w", err)
		}

		result = AdmissionResult{Candidacy: c, SeatsRemaining: trip.SeatsAvailable()}
		return nil
	})
	if err != nil {
		return AdmissionResult{}, err
	}
	return result, nil
}

// Reject marks a candidacy Rejected. It never touches trip capacity, but
// still locks the candidacy row so a concurrent approve and reject of the
// same candidacy cannot both succeed.
// Returns domain.ErrNotFound / domain.ErrInvalidState under the same
// conditions as Approve.
func (s *AdmissionService) Reject(ctx context.Context, candidacyID uuid.UUID) (domain.Candidacy, error) {
	var result domain.Candidacy

	err := s.store.InTx(ctx, func(_ repo.TripRepo, candidacies repo.CandidacyRepo) error {
		c, err := candidacies.GetForUpdate(ctx, candidacyID)
		if err != nil {
			return fmt.Errorf("service.AdmissionService.Reject: %w", err)
		}
		if c.Status != domain.StatusAwaitingAnalysis {
			return fmt.Errorf("service.AdmissionService.Reject: candidacy is %s: %w", c.Status, domain.ErrInvalidState)
		}

		c, err = candidacies.SetDecision(ctx, c.ID, domain.StatusRejected, false)
		if err != nil {
			return fmt.Errorf("service.AdmissionService.Reject: %w", err)
		}

		result = c
		return nil
	})
	if err != nil {
		return domain.Candidacy{}, err
	}
	return result, nil
}
