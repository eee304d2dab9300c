package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/unisism/transport-api/internal/domain"
)

const patientColumns = `id, national_id, name, phone, created_at`

// PatientRepo defines the persistence operations for Patients.
type PatientRepo interface {
	// Create inserts a new patient and returns the persisted record.
	Create(ctx context.Context, patient domain.Patient) (domain.Patient, error)

	// GetByID retrieves a patient by UUID primary key.
	// Returns domain.ErrNotFound if no patient with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Patient, error)

	// GetByNationalID retrieves a patient by the unique national identifier.
	// Returns domain.ErrNotFound if no such patient exists.
	GetByNationalID(ctx context.Context, nationalID string) (domain.Patient, error)

	// List returns all patients ordered by name.
	List(ctx context.Context) ([]domain.Patient, error)
}

type pgPatientRepo struct {
	db db
}

// NewPatientRepo constructs a PatientRepo backed by the provided db connection.
func NewPatientRepo(db db) PatientRepo {
	return &pgPatientRepo{db: db}
}

func (r *pgPatientRepo) Create(ctx context.Context, patient domain.Patient) (domain.Patient, error) {
	const q = `
		INSERT INTO patients (national_id, name, phone)
		VALUES (@national_id, @name, @phone)
		RETURNING ` + patientColumns

	args := pgx.NamedArgs{
		"national_id": patient.NationalID,
		"name":        patient.Name,
		"phone":       patient.Phone,
	}

	result, err := scanPatient(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Patient{}, fmt.Errorf("repo.PatientRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	const q = `SELECT ` + patientColumns + ` FROM patients WHERE id = @id`

	result, err := scanPatient(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Patient{}, fmt.Errorf("repo.PatientRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPatientRepo) GetByNationalID(ctx context.Context, nationalID string) (domain.Patient, error) {
	const q = `SELECT ` + patientColumns + ` FROM patients WHERE national_id = @national_id`

	result, err := scanPatient(r.db.QueryRow(ctx, q, pgx.NamedArgs{"national_id": nationalID}))
	if err != nil {
		return domain.Patient{}, fmt.Errorf("repo.PatientRepo.GetByNationalID: %w", err)
	}
	return result, nil
}

func (r *pgPatientRepo) List(ctx context.Context) ([]domain.Patient, error) {
	const q = `SELECT ` + patientColumns + ` FROM patients ORDER BY name ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PatientRepo.List: %w", err)
	}
	defer rows.Close()

	var patients []domain.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PatientRepo.List: scan: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PatientRepo.List: rows: %w", err)
	}

	return patients, nil
}

// scanPatient maps a single database row into a domain.Patient.
func scanPatient(s scanner) (domain.Patient, error) {
	var (
		p  domain.Patient
		id pgtype.UUID
	)

	err := s.Scan(&id, &p.NationalID, &p.Name, &p.Phone, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Patient{}, domain.ErrNotFound
		}
		return domain.Patient{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	return p, nil
}
