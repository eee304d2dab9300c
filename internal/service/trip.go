// Package service contains the business logic for the transport admission
// API. Services validate inputs, enforce business rules, and orchestrate
// repo calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/unisism/transport-api/internal/domain"
	"github.com/unisism/transport-api/internal/repo"
)

// TripService implements business logic for the trip catalog.
// Trips are created by the fleet manager and never deleted; their
// capacity_used is mutated only by the admission service.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip with zero seats used.
// Returns domain.ErrValidation for a non-positive capacity, an empty
// destination, or a missing departure time.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.CapacityUsed = 0
	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// ListUpcoming returns trips departing at or after now, narrowed by the
// optional destination/date filter, ordered by departure ascending.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListUpcoming(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error) {
	trips, err := s.repo.ListUpcoming(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListUpcoming: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListAll returns every trip, most recent departure first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListAll(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListAll: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// validateTrip enforces business rules for trip creation.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if trip.DepartureAt.IsZero() {
		return fmt.Errorf("%w: departure_at is required", domain.ErrValidation)
	}
	if trip.CapacityTotal <= 0 {
		return fmt.Errorf("%w: capacity_total must be positive", domain.ErrValidation)
	}
	return nil
}
