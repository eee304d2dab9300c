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

// tripColumns is the canonical select list shared by every trip query.
const tripColumns = `id, destination, departure_at, plate, driver, capacity_total, capacity_used, created_at`

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the services to be unit-tested with mocks.
type TripRepo interface {
	// Create inserts a new trip with capacity_used = 0 and returns the
	// persisted record (with DB-generated id and created_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetForUpdate retrieves a trip holding a row-level exclusive lock until
	// the surrounding transaction ends. Calling this outside a transaction is
	// a programming error; concurrent approvals for the same trip serialize
	// on this lock while different trips proceed independently.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ConsumeSeats increments capacity_used by n and returns the updated
	// trip. The CHECK constraint on capacity_used backstops the capacity
	// invariant should a caller skip the availability check.
	ConsumeSeats(ctx context.Context, id uuid.UUID, n int) (domain.Trip, error)

	// ListUpcoming returns trips departing at or after now, optionally
	// narrowed by filter, ordered by departure_at ascending.
	ListUpcoming(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error)

	// ListAll returns every trip ordered by departure_at descending
	// (most recent first) — the fleet manager's board view.
	ListAll(ctx context.Context) ([]domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in the admission transaction pass the
// pgx.Tx; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (destination, departure_at, plate, driver, capacity_total)
		VALUES (@destination, @departure_at, @plate, @driver, @capacity_total)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"destination":    trip.Destination,
		"departure_at":   trip.DepartureAt,
		"plate":          trip.Plate,
		"driver":         trip.Driver,
		"capacity_total": trip.CapacityTotal,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id FOR UPDATE`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ConsumeSeats(ctx context.Context, id uuid.UUID, n int) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET capacity_used = capacity_used + @n
		WHERE id = @id
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "n": n}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.ConsumeSeats: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListUpcoming(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error) {
	// Filters are optional; NULL arguments disable the corresponding clause.
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE departure_at >= now()
		  AND (@destination::text IS NULL OR destination ILIKE '%' || @destination || '%')
		  AND (@date::date IS NULL OR departure_at::date = @date::date)
		ORDER BY departure_at ASC`

	args := pgx.NamedArgs{"destination": nil, "date": nil}
	if filter.Destination != "" {
		args["destination"] = filter.Destination
	}
	if filter.Date != nil {
		args["date"] = *filter.Date
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListUpcoming: %w", err)
	}
	defer rows.Close()

	return collectTrips(rows, "repo.TripRepo.ListUpcoming")
}

func (r *pgTripRepo) ListAll(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips ORDER BY departure_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListAll: %w", err)
	}
	defer rows.Close()

	return collectTrips(rows, "repo.TripRepo.ListAll")
}

// collectTrips drains rows into a slice, wrapping errors with op.
func collectTrips(rows pgx.Rows, op string) ([]domain.Trip, error) {
	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t  domain.Trip
		id pgtype.UUID
	)

	err := s.Scan(&id, &t.Destination, &t.DepartureAt, &t.Plate, &t.Driver,
		&t.CapacityTotal, &t.CapacityUsed, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
