package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/unisism/transport-api/internal/domain"
	"github.com/unisism/transport-api/internal/repo"
	"github.com/unisism/transport-api/internal/service"
	"github.com/unisism/transport-api/testutil"
)

// admissionFixture commits a trip, a patient, and n awaiting candidacies to
// the test database. The admission store opens its own transactions, so
// these tests cannot hide behind a rolled-back test transaction — rows are
// committed for real and removed again in t.Cleanup.
type admissionFixture struct {
	pool        *pgxpool.Pool
	trip        domain.Trip
	candidacies []domain.Candidacy
}

func newAdmissionFixture(t *testing.T, capacity, candidates int, companion bool) admissionFixture {
	t.Helper()
	pool := testutil.NewPool(t)
	ctx := context.Background()

	trips := repo.NewTripRepo(pool)
	patients := repo.NewPatientRepo(pool)
	cands := repo.NewCandidacyRepo(pool)

	tripInput := tripFixture()
	tripInput.CapacityTotal = capacity
	trip, err := trips.Create(ctx, tripInput)
	require.NoError(t, err)

	var created []domain.Candidacy
	var patientIDs []uuid.UUID
	for i := 0; i < candidates; i++ {
		p, err := patients.Create(ctx, patientFixture("Concurrent Candidate"))
		require.NoError(t, err)
		patientIDs = append(patientIDs, p.ID)

		c, err := cands.Create(ctx, domain.Candidacy{
			PatientID: p.ID,
			TripID:    &trip.ID,
			Priority:  3,
			Companion: companion,
		})
		require.NoError(t, err)
		created = append(created, c)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM candidacies WHERE trip_id = $1`, trip.ID)
		_, _ = pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, trip.ID)
		for _, id := range patientIDs {
			_, _ = pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
		}
	})

	return admissionFixture{pool: pool, trip: trip, candidacies: created}
}

func TestAdmissionStore_CommitsBothMutations(t *testing.T) {
	fx := newAdmissionFixture(t, 10, 1, false)
	ctx := context.Background()
	store := repo.NewAdmissionStore(fx.pool)

	err := store.InTx(ctx, func(trips repo.TripRepo, candidacies repo.CandidacyRepo) error {
		if _, err := trips.ConsumeSeats(ctx, fx.trip.ID, 1); err != nil {
			return err
		}
		_, err := candidacies.SetDecision(ctx, fx.candidacies[0].ID, domain.StatusApproved, true)
		return err
	})
	require.NoError(t, err)

	// Both writes must be visible outside the transaction.
	trip, err := repo.NewTripRepo(fx.pool).GetByID(ctx, fx.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, trip.CapacityUsed)

	c, err := repo.NewCandidacyRepo(fx.pool).GetByID(ctx, fx.candidacies[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, c.Status)
}

func TestAdmissionStore_RollsBackOnError(t *testing.T) {
	fx := newAdmissionFixture(t, 10, 1, false)
	ctx := context.Background()
	store := repo.NewAdmissionStore(fx.pool)

	boom := errors.New("boom")
	err := store.InTx(ctx, func(trips repo.TripRepo, _ repo.CandidacyRepo) error {
		if _, err := trips.ConsumeSeats(ctx, fx.trip.ID, 1); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom, "fn errors must come back unchanged")

	trip, err := repo.NewTripRepo(fx.pool).GetByID(ctx, fx.trip.ID)
	require.NoError(t, err)
	assert.Zero(t, trip.CapacityUsed, "seat consumption must roll back with the error")
}

// TestAdmission_ConcurrentApprovals_NoOverbooking drives the full admission
// service against a real database: one remaining seat, two managers approving
// different candidacies at the same instant. The row locks serialize them —
// exactly one approval commits and the loser sees the capacity error.
func TestAdmission_ConcurrentApprovals_NoOverbooking(t *testing.T) {
	fx := newAdmissionFixture(t, 1, 2, false)
	ctx := context.Background()
	svc := service.NewAdmissionService(repo.NewAdmissionStore(fx.pool))

	var g errgroup.Group
	results := make([]error, 2)
	for i := range fx.candidacies {
		i := i
		g.Go(func() error {
			_, err := svc.Approve(ctx, fx.candidacies[i].ID)
			results[i] = err
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var approved, refused int
	for _, err := range results {
		switch {
		case err == nil:
			approved++
		case errors.Is(err, domain.ErrInsufficientCapacity):
			refused++
		default:
			t.Fatalf("unexpected approval error: %v", err)
		}
	}
	assert.Equal(t, 1, approved, "exactly one approval must win the last seat")
	assert.Equal(t, 1, refused, "the loser must get the capacity error, not overbook")

	trip, err := repo.NewTripRepo(fx.pool).GetByID(ctx, fx.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, trip.CapacityUsed, "capacity_used never exceeds capacity_total")
}

// A companion needs two seats; with one seat left the approval must refuse
// atomically rather than partially seating the patient.
func TestAdmission_CompanionNeedsBothSeats(t *testing.T) {
	fx := newAdmissionFixture(t, 1, 1, true)
	ctx := context.Background()
	svc := service.NewAdmissionService(repo.NewAdmissionStore(fx.pool))

	_, err := svc.Approve(ctx, fx.candidacies[0].ID)

	assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)

	trip, lookupErr := repo.NewTripRepo(fx.pool).GetByID(ctx, fx.trip.ID)
	require.NoError(t, lookupErr)
	assert.Zero(t, trip.CapacityUsed)

	c, lookupErr := repo.NewCandidacyRepo(fx.pool).GetByID(ctx, fx.candidacies[0].ID)
	require.NoError(t, lookupErr)
	assert.Equal(t, domain.StatusAwaitingAnalysis, c.Status, "refused candidacy stays in the queue")
}
