package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/unisism/transport-api/internal/domain"
	"github.com/unisism/transport-api/internal/repo"
)

// PatientService implements business logic for patient registration.
// Patients are referenced by candidacies and never mutated by the
// admission core.
type PatientService struct {
	repo repo.PatientRepo
}

// NewPatientService constructs a PatientService backed by the provided repo.
func NewPatientService(r repo.PatientRepo) *PatientService {
	return &PatientService{repo: r}
}

// Create validates and persists a new patient.
func (s *PatientService) Create(ctx context.Context, patient domain.Patient) (domain.Patient, error) {
	if strings.TrimSpace(patient.NationalID) == "" {
		return domain.Patient{}, fmt.Errorf("%w: national_id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(patient.Name) == "" {
		return domain.Patient{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	result, err := s.repo.Create(ctx, patient)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("service.PatientService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single patient by ID.
func (s *PatientService) GetByID(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("service.PatientService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all patients ordered by name.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PatientService) List(ctx context.Context) ([]domain.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PatientService.List: %w", err)
	}
	if patients == nil {
		return []domain.Patient{}, nil
	}
	return patients, nil
}
