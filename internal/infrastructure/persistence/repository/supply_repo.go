package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
	"github.com/cabinet-medical/cabinet-console/internal/infrastructure/persistence/sqlite"
)

// SupplyRepository implements port.SupplyRepository
type SupplyRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewSupplyRepository creates a new supply repository
func NewSupplyRepository(db *sqlite.DB, logger *zap.Logger) port.SupplyRepository {
	return &SupplyRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a supply
func (r *SupplyRepository) Create(ctx context.Context, supply *entity.Supply) error {
	query := `
		INSERT INTO supplies (
			id, item, purchase_date, invoiced, price, payment_type, tax_status
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		supply.ID,
		supply.Item,
		supply.PurchaseDate.ISO(),
		supply.Invoiced,
		supply.Price.StringFixed(2),
		supply.PaymentType,
		supply.TaxStatus,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("supply %s: %w", supply.ID, port.ErrDuplicateID)
		}
		r.logger.Error("Failed to create supply", zap.String("id", supply.ID), zap.Error(err))
		return fmt.Errorf("failed to create supply: %w", err)
	}

	return nil
}

// List retrieves all supplies in insertion order
func (r *SupplyRepository) List(ctx context.Context) ([]entity.Supply, error) {
	query := `
		SELECT id, item, purchase_date, invoiced, price, payment_type, tax_status
		FROM supplies
		ORDER BY seq ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list supplies", zap.Error(err))
		return nil, fmt.Errorf("failed to list supplies: %w", err)
	}
	defer rows.Close()

	supplies := []entity.Supply{}
	for rows.Next() {
		var (
			supply       entity.Supply
			purchaseDate string
			price        string
		)
		err := rows.Scan(
			&supply.ID,
			&supply.Item,
			&purchaseDate,
			&supply.Invoiced,
			&price,
			&supply.PaymentType,
			&supply.TaxStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supply: %w", err)
		}

		if supply.PurchaseDate, err = entity.ParseISODate(purchaseDate); err != nil {
			return nil, fmt.Errorf("supply %s: %w", supply.ID, err)
		}
		if supply.Price, err = entity.ParsePrice(price); err != nil {
			return nil, fmt.Errorf("supply %s: %w", supply.ID, err)
		}
		supplies = append(supplies, supply)
	}

	return supplies, rows.Err()
}

// Verify interface compliance
var _ port.SupplyRepository = (*SupplyRepository)(nil)
