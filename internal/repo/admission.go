package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// AdmissionStore runs a function against trip and candidacy repos bound to
// a single database transaction. The admission service depends on this
// interface so the approve/reject logic can be unit-tested with a fake
// store while production commits both mutations as one unit.
type AdmissionStore interface {
	// InTx begins a transaction, hands fn repos bound to it, and commits if
	// fn returns nil. Any error from fn rolls the transaction back and is
	// returned unchanged so sentinel checks still work.
	InTx(ctx context.Context, fn func(trips TripRepo, candidacies CandidacyRepo) error) error
}

// beginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type pgAdmissionStore struct {
	db beginner
}

// NewAdmissionStore constructs an AdmissionStore over the provided pool.
func NewAdmissionStore(db beginner) AdmissionStore {
	return &pgAdmissionStore{db: db}
}

func (s *pgAdmissionStore) InTx(ctx context.Context, fn func(trips TripRepo, candidacies CandidacyRepo) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.AdmissionStore.InTx: begin: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer tx.Rollback(ctx)

	if err := fn(NewTripRepo(tx), NewCandidacyRepo(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.AdmissionStore.InTx: commit: %w", err)
	}
	return nil
}
