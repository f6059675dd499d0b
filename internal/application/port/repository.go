package port

import (
	"context"
	"errors"

	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

// ErrDuplicateID is returned by stores that enforce unique record ids
var ErrDuplicateID = errors.New("record id already exists")

// SupplyRepository defines persistence operations for Supply
type SupplyRepository interface {
	// Create appends a supply at the end of the collection
	Create(ctx context.Context, supply *entity.Supply) error

	// List returns every supply in insertion order
	List(ctx context.Context) ([]entity.Supply, error)
}

// AbsenceRepository defines persistence operations for Absence
type AbsenceRepository interface {
	// Create appends an absence at the end of the collection
	Create(ctx context.Context, absence *entity.Absence) error

	// List returns every absence in insertion order
	List(ctx context.Context) ([]entity.Absence, error)

	// UpdateStatus replaces the status of the absence with the given id.
	// It reports false, without error, when no absence matches.
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
