package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
	"github.com/cabinet-medical/cabinet-console/internal/infrastructure/persistence/sqlite"
)

// AbsenceRepository implements port.AbsenceRepository
type AbsenceRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewAbsenceRepository creates a new absence repository
func NewAbsenceRepository(db *sqlite.DB, logger *zap.Logger) port.AbsenceRepository {
	return &AbsenceRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an absence
func (r *AbsenceRepository) Create(ctx context.Context, absence *entity.Absence) error {
	query := `
		INSERT INTO absences (
			id, employee, start_date, end_date, reason, status
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		absence.ID,
		absence.Employee,
		absence.StartDate.ISO(),
		absence.EndDate.ISO(),
		absence.Reason,
		absence.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("absence %s: %w", absence.ID, port.ErrDuplicateID)
		}
		r.logger.Error("Failed to create absence", zap.String("id", absence.ID), zap.Error(err))
		return fmt.Errorf("failed to create absence: %w", err)
	}

	return nil
}

// List retrieves all absences in insertion order
func (r *AbsenceRepository) List(ctx context.Context) ([]entity.Absence, error) {
	query := `
		SELECT id, employee, start_date, end_date, reason, status
		FROM absences
		ORDER BY seq ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list absences", zap.Error(err))
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	defer rows.Close()

	absences := []entity.Absence{}
	for rows.Next() {
		var (
			absence    entity.Absence
			start, end string
		)
		if err := rows.Scan(
			&absence.ID,
			&absence.Employee,
			&start,
			&end,
			&absence.Reason,
			&absence.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}

		var err error
		if absence.StartDate, err = entity.ParseISODate(start); err != nil {
			return nil, fmt.Errorf("absence %s: %w", absence.ID, err)
		}
		if absence.EndDate, err = entity.ParseISODate(end); err != nil {
			return nil, fmt.Errorf("absence %s: %w", absence.ID, err)
		}
		absences = append(absences, absence)
	}

	return absences, rows.Err()
}

// UpdateStatus updates the status of one absence
func (r *AbsenceRepository) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	query := `UPDATE absences SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update absence status", zap.String("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to update absence status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// Verify interface compliance
var _ port.AbsenceRepository = (*AbsenceRepository)(nil)
