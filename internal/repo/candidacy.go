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

const candidacyColumns = `id, patient_id, trip_id, priority, companion, procedure_text,
	status, approved, boarding_status, classifier_note, created_at`

// CandidacyRepo defines the persistence operations for Candidacies.
type CandidacyRepo interface {
	// Create inserts a new candidacy in Awaiting_Analysis. created_at is
	// assigned by the database at insert time and never recomputed.
	Create(ctx context.Context, c domain.Candidacy) (domain.Candidacy, error)

	// GetByID retrieves a candidacy by UUID primary key.
	// Returns domain.ErrNotFound if no candidacy with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Candidacy, error)

	// GetForUpdate retrieves a candidacy holding a row-level exclusive lock
	// until the surrounding transaction ends, serializing concurrent
	// decisions on the same candidacy.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Candidacy, error)

	// RankedByTrip returns the candidacies still awaiting analysis for a
	// trip, joined with their patients, ordered by priority descending then
	// created_at ascending then id ascending. The ordering is total: two
	// rows never swap places between calls.
	RankedByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.RankedCandidate, error)

	// SetDecision records the admission outcome (Approved or Rejected) and
	// the approval flag. No status precondition is checked here — the
	// admission service validates state under the row lock first.
	SetDecision(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus, approved bool) (domain.Candidacy, error)

	// SetStatus is the manual, non-invariant-checked status write used for
	// the waitlist and cost-assistance tracks.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus) (domain.Candidacy, error)

	// SetBoarding records the driver's check-in for an approved candidacy.
	SetBoarding(ctx context.Context, id uuid.UUID, status domain.BoardingStatus) (domain.Candidacy, error)

	// ApplyClassification updates priority, procedure text, and the
	// classifier note, but only while the candidacy is still awaiting
	// analysis; a late classifier result must not touch decided records.
	// Returns domain.ErrNotFound when the candidacy is absent or already
	// decided.
	ApplyClassification(ctx context.Context, id uuid.UUID, priority int, procedure, note string) (domain.Candidacy, error)

	// ManifestByTrip returns the approved candidacies for a trip joined with
	// their patients — the driver's boarding list.
	ManifestByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestEntry, error)
}

type pgCandidacyRepo struct {
	db db
}

// NewCandidacyRepo constructs a CandidacyRepo backed by the provided db
// connection. In the admission transaction pass the pgx.Tx so candidacy and
// trip mutations commit as one unit.
func NewCandidacyRepo(db db) CandidacyRepo {
	return &pgCandidacyRepo{db: db}
}

func (r *pgCandidacyRepo) Create(ctx context.Context, c domain.Candidacy) (domain.Candidacy, error) {
	const q = `
		INSERT INTO candidacies (patient_id, trip_id, priority, companion, procedure_text, classifier_note)
		VALUES (@patient_id, @trip_id, @priority, @companion, @procedure_text, @classifier_note)
		RETURNING ` + candidacyColumns

	args := pgx.NamedArgs{
		"patient_id":      c.PatientID,
		"trip_id":         c.TripID, // nil becomes NULL
		"priority":        c.Priority,
		"companion":       c.Companion,
		"procedure_text":  c.Procedure,
		"classifier_note": c.ClassifierNote,
	}

	result, err := scanCandidacy(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("repo.CandidacyRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgCandidacyRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Candidacy, error) {
	const q = `SELECT ` + candidacyColumns + ` FROM candidacies WHERE id = @id`

	result, err := scanCandidacy(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("repo.CandidacyRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgCandidacyRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Candidacy, error) {
	const q = `SELECT ` + candidacyColumns + ` FROM candidacies WHERE id = @id FOR UPDATE`

	result, err := scanCandidacy(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("repo.CandidacyRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgCandidacyRepo) RankedByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.RankedCandidate, error) {
	// The trailing id tiebreak makes the order total even for candidacies
	// created in the same microsecond.
	const q = `
		SELECT c.id, c.patient_id, c.trip_id, c.priority, c.companion, c.procedure_text,
		       c.status, c.approved, c.boarding_status, c.classifier_note, c.created_at,
		       p.name, p.national_id
		FROM candidacies c
		JOIN patients p ON p.id = c.patient_id
		WHERE c.trip_id = @trip_id
		  AND c.status = @status
		ORDER BY c.priority DESC, c.created_at ASC, c.id ASC`

	args := pgx.NamedArgs{"trip_id": tripID, "status": domain.StatusAwaitingAnalysis}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.CandidacyRepo.RankedByTrip: %w", err)
	}
	defer rows.Close()

	var ranked []domain.RankedCandidate
	for rows.Next() {
		var (
			rc domain.RankedCandidate
			id pgtype.UUID
			pa pgtype.UUID
			tr pgtype.UUID
		)
		err := rows.Scan(&id, &pa, &tr, &rc.Priority, &rc.Companion, &rc.Procedure,
			&rc.Status, &rc.Approved, &rc.BoardingStatus, &rc.ClassifierNote, &rc.CreatedAt,
			&rc.PatientName, &rc.PatientNationalID)
		if err != nil {
			return nil, fmt.Errorf("repo.CandidacyRepo.RankedByTrip: scan: %w", err)
		}
		rc.ID = uuid.UUID(id.Bytes)
		rc.PatientID = uuid.UUID(pa.Bytes)
		if tr.Valid {
			t := uuid.UUID(tr.Bytes)
			rc.TripID = &t
		}
		ranked = append(ranked, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CandidacyRepo.RankedByTrip: rows: %w", err)
	}

	return ranked, nil
}

func (r *pgCandidacyRepo) SetDecision(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus, approved bool) (domain.Candidacy, error) {
	const q = `
		UPDATE candidacies
		SET status = @status, approved = @approved
		WHERE id = @id
		RETURNING ` + candidacyColumns

	args := pgx.NamedArgs{"id": id, "status": status, "approved": approved}

	result, err := scanCandidacy(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("repo.CandidacyRepo.SetDecision: %w", err)
	}
	return result, nil
}

func (r *pgCandidacyRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.CandidacyStatus) (domain.Candidacy, error) {
	const q = `
		UPDATE candidacies
		SET status = @status
		WHERE id = @id
		RETURNING ` + candidacyColumns

	result, err := scanCandidacy(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": status}))
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("repo.CandidacyRepo.SetStatus: %w", err)
	}
	return result, nil
}

func (r *pgCandidacyRepo) SetBoarding(ctx context.Context, id uuid.UUID, status domain.BoardingStatus) (domain.Candidacy, error) {
	const q = `
		UPDATE candidacies
		SET boarding_status = @boarding_status
		WHERE id = @id
		RETURNING ` + candidacyColumns

	result, err := scanCandidacy(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "boarding_status": status}))
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("repo.CandidacyRepo.SetBoarding: %w", err)
	}
	return result, nil
}

func (r *pgCandidacyRepo) ApplyClassification(ctx context.Context, id uuid.UUID, priority int, procedure, note string) (domain.Candidacy, error) {
	const q = `
		UPDATE candidacies
		SET priority = @priority, procedure_text = @procedure_text, classifier_note = @classifier_note
		WHERE id = @id
		  AND status = @status
		RETURNING ` + candidacyColumns

	args := pgx.NamedArgs{
		"id":              id,
		"priority":        priority,
		"procedure_text":  procedure,
		"classifier_note": note,
		"status":          domain.StatusAwaitingAnalysis,
	}

	result, err := scanCandidacy(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("repo.CandidacyRepo.ApplyClassification: %w", err)
	}
	return result, nil
}

func (r *pgCandidacyRepo) ManifestByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ManifestEntry, error) {
	const q = `
		SELECT c.id, p.name, p.national_id, c.companion, c.boarding_status
		FROM candidacies c
		JOIN patients p ON p.id = c.patient_id
		WHERE c.trip_id = @trip_id
		  AND c.status = @status
		ORDER BY p.name ASC`

	args := pgx.NamedArgs{"trip_id": tripID, "status": domain.StatusApproved}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.CandidacyRepo.ManifestByTrip: %w", err)
	}
	defer rows.Close()

	var entries []domain.ManifestEntry
	for rows.Next() {
		var (
			e  domain.ManifestEntry
			id pgtype.UUID
		)
		err := rows.Scan(&id, &e.PatientName, &e.PatientNationalID, &e.Companion, &e.BoardingStatus)
		if err != nil {
			return nil, fmt.Errorf("repo.CandidacyRepo.ManifestByTrip: scan: %w", err)
		}
		e.CandidacyID = uuid.UUID(id.Bytes)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CandidacyRepo.ManifestByTrip: rows: %w", err)
	}

	return entries, nil
}

// scanCandidacy maps a single database row into a domain.Candidacy.
// It handles the UUID and nullable trip_id conversions.
func scanCandidacy(s scanner) (domain.Candidacy, error) {
	var (
		c       domain.Candidacy
		id      pgtype.UUID
		patient pgtype.UUID
		trip    pgtype.UUID
	)

	err := s.Scan(&id, &patient, &trip, &c.Priority, &c.Companion, &c.Procedure,
		&c.Status, &c.Approved, &c.BoardingStatus, &c.ClassifierNote, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Candidacy{}, domain.ErrNotFound
		}
		return domain.Candidacy{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.PatientID = uuid.UUID(patient.Bytes)
	if trip.Valid {
		t := uuid.UUID(trip.Bytes)
		c.TripID = &t
	}

	return c, nil
}
