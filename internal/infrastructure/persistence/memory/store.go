// Package memory keeps the cabinet collections in process memory. Data is
// lost when the process exits.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

// Store holds a cabinet.State and swaps it on every mutation.
type Store struct {
	mu    sync.RWMutex
	state cabinet.State
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{state: cabinet.NewState()}
}

// NewStoreFrom seeds the store with existing records.
func NewStoreFrom(state cabinet.State) *Store {
	return &Store{state: state}
}

// State returns the current snapshot.
func (s *Store) State() cabinet.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) update(fn func(cabinet.State) cabinet.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
}

// Supplies returns the supply repository view of the store.
func (s *Store) Supplies() *SupplyRepository { return &SupplyRepository{store: s} }

// Absences returns the absence repository view of the store.
func (s *Store) Absences() *AbsenceRepository { return &AbsenceRepository{store: s} }

// WithTransaction runs fn directly; every single mutation is already atomic.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// SupplyRepository implements port.SupplyRepository over a Store.
type SupplyRepository struct {
	store *Store
}

// Create appends a supply.
func (r *SupplyRepository) Create(ctx context.Context, supply *entity.Supply) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.update(func(st cabinet.State) cabinet.State { return st.WithSupply(*supply) })
	return nil
}

// List returns a copy of the supplies in insertion order.
func (r *SupplyRepository) List(ctx context.Context) ([]entity.Supply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(r.store.State().Supplies), nil
}

// AbsenceRepository implements port.AbsenceRepository over a Store.
type AbsenceRepository struct {
	store *Store
}

// Create appends an absence.
func (r *AbsenceRepository) Create(ctx context.Context, absence *entity.Absence) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.update(func(st cabinet.State) cabinet.State { return st.WithAbsence(*absence) })
	return nil
}

// List returns a copy of the absences in insertion order.
func (r *AbsenceRepository) List(ctx context.Context) ([]entity.Absence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(r.store.State().Absences), nil
}

// UpdateStatus replaces the status of the matching absence.
func (r *AbsenceRepository) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var updated bool
	r.store.update(func(st cabinet.State) cabinet.State {
		st, updated = st.WithAbsenceStatus(id, status)
		return st
	})
	return updated, nil
}

// Verify interface compliance
var (
	_ port.SupplyRepository   = (*SupplyRepository)(nil)
	_ port.AbsenceRepository  = (*AbsenceRepository)(nil)
	_ port.TransactionManager = (*Store)(nil)
)
