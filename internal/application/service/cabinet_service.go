package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
	"github.com/cabinet-medical/cabinet-console/internal/domain/event"
)

// ViewOptions is the per-request part of the cabinet view: the active tab,
// the supplies filter and the export checkboxes.
type ViewOptions struct {
	Tab     cabinet.Tab
	Filter  cabinet.Filter
	Columns cabinet.ColumnSelection
}

// DefaultViewOptions mirrors cabinet.NewState.
func DefaultViewOptions() ViewOptions {
	s := cabinet.NewState()
	return ViewOptions{Tab: s.Tab, Filter: s.Filter, Columns: s.Columns}
}

// CabinetService manages supplies and staff absences of the cabinet
type CabinetService interface {
	AddSupply(ctx context.Context, supply entity.Supply) (*entity.Supply, error)
	AddAbsence(ctx context.Context, absence entity.Absence) (*entity.Absence, error)
	UpdateAbsenceStatus(ctx context.Context, id, status string) (bool, error)
	ListSupplies(ctx context.Context, filter cabinet.Filter) ([]entity.Supply, error)
	ListAbsences(ctx context.Context) ([]entity.Absence, error)
	Snapshot(ctx context.Context, opts ViewOptions) (cabinet.State, error)
	Export(ctx context.Context, opts ViewOptions) (*port.ExportFile, error)
}

type cabinetServiceImpl struct {
	supplyRepo  port.SupplyRepository
	absenceRepo port.AbsenceRepository
	txManager   port.TransactionManager
	exporter    port.SpreadsheetExporter
	archive     port.FileStorage
	events      port.EventPublisher
	validate    *validator.Validate
	newID       func() string
	now         func() time.Time
	logger      Logger
}

// CabinetOption customizes the cabinet service
type CabinetOption func(*cabinetServiceImpl)

// WithExportArchive keeps a copy of every export in storage
func WithExportArchive(storage port.FileStorage) CabinetOption {
	return func(s *cabinetServiceImpl) { s.archive = storage }
}

// WithEventPublisher announces created records, status changes and exports
func WithEventPublisher(events port.EventPublisher) CabinetOption {
	return func(s *cabinetServiceImpl) { s.events = events }
}

// WithIDGenerator overrides the id source used for records created without one
func WithIDGenerator(fn func() string) CabinetOption {
	return func(s *cabinetServiceImpl) { s.newID = fn }
}

// WithClock overrides the clock used to name archived exports
func WithClock(fn func() time.Time) CabinetOption {
	return func(s *cabinetServiceImpl) { s.now = fn }
}

// NewCabinetService creates a new CabinetService
func NewCabinetService(
	supplyRepo port.SupplyRepository,
	absenceRepo port.AbsenceRepository,
	txManager port.TransactionManager,
	exporter port.SpreadsheetExporter,
	logger Logger,
	opts ...CabinetOption,
) CabinetService {
	s := &cabinetServiceImpl{
		supplyRepo:  supplyRepo,
		absenceRepo: absenceRepo,
		txManager:   txManager,
		exporter:    exporter,
		validate:    validator.New(),
		newID:       uuid.NewString,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type supplyRules struct {
	Item        string `validate:"required,max=200"`
	PaymentType string `validate:"required"`
	TaxStatus   string `validate:"required,oneof=TTC HT"`
}

type absenceRules struct {
	Employee string `validate:"required,max=200"`
	Reason   string `validate:"required,max=500"`
}

// AddSupply validates and appends a supply
func (s *cabinetServiceImpl) AddSupply(ctx context.Context, supply entity.Supply) (*entity.Supply, error) {
	supply.Item = strings.TrimSpace(supply.Item)
	if err := s.validateSupply(supply); err != nil {
		return nil, err
	}
	if supply.ID == "" {
		supply.ID = s.newID()
	}

	if err := s.supplyRepo.Create(ctx, &supply); err != nil {
		s.logger.Error("Failed to create supply", "error", err, "item", supply.Item)
		return nil, fmt.Errorf("create supply: %w", err)
	}

	s.logger.Info("Supply created", "id", supply.ID, "item", supply.Item)
	s.publish(ctx, event.NewEvent(event.TypeSupplyAdded, supply.ID, map[string]any{
		event.KeyItem:  supply.Item,
		event.KeyPrice: supply.Price.Display(),
	}))
	return &supply, nil
}

// AddAbsence validates and appends an absence
func (s *cabinetServiceImpl) AddAbsence(ctx context.Context, absence entity.Absence) (*entity.Absence, error) {
	absence.Employee = strings.TrimSpace(absence.Employee)
	if absence.Status == "" {
		absence.Status = entity.AbsenceStatusPending
	}
	if err := s.validateAbsence(absence); err != nil {
		return nil, err
	}
	if absence.ID == "" {
		absence.ID = s.newID()
	}

	if err := s.absenceRepo.Create(ctx, &absence); err != nil {
		s.logger.Error("Failed to create absence", "error", err, "employee", absence.Employee)
		return nil, fmt.Errorf("create absence: %w", err)
	}

	s.logger.Info("Absence created", "id", absence.ID, "employee", absence.Employee)
	s.publish(ctx, event.NewEvent(event.TypeAbsenceAdded, absence.ID, map[string]any{
		event.KeyEmployee: absence.Employee,
		event.KeyStatus:   absence.Status,
	}))
	return &absence, nil
}

// UpdateAbsenceStatus replaces the status of one absence
func (s *cabinetServiceImpl) UpdateAbsenceStatus(ctx context.Context, id, status string) (bool, error) {
	if !entity.IsValidAbsenceStatus(status) {
		return false, fmt.Errorf("%w: unknown absence status %q", ErrInvalidInput, status)
	}

	var updated bool
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.absenceRepo.UpdateStatus(txCtx, id, status)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to update absence status", "error", err, "id", id)
		return false, fmt.Errorf("update absence status: %w", err)
	}

	if updated {
		s.logger.Info("Absence status updated", "id", id, "status", status)
		s.publish(ctx, event.NewEvent(event.TypeAbsenceStatusChanged, id, map[string]any{
			event.KeyStatus: status,
		}))
	} else {
		s.logger.Info("Absence status update matched nothing", "id", id)
	}
	return updated, nil
}

// ListSupplies returns the supplies matching the filter
func (s *cabinetServiceImpl) ListSupplies(ctx context.Context, filter cabinet.Filter) ([]entity.Supply, error) {
	supplies, err := s.supplyRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list supplies", "error", err)
		return nil, fmt.Errorf("list supplies: %w", err)
	}
	if !filter.Range.Valid() {
		s.logger.Info("Supply filter range is not a valid date range",
			"start", filter.Range.StartRaw, "end", filter.Range.EndRaw)
	}
	return filter.Apply(supplies), nil
}

// ListAbsences returns every absence
func (s *cabinetServiceImpl) ListAbsences(ctx context.Context) ([]entity.Absence, error) {
	absences, err := s.absenceRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list absences", "error", err)
		return nil, fmt.Errorf("list absences: %w", err)
	}
	return absences, nil
}

// Snapshot assembles the cabinet view state from the stored collections
func (s *cabinetServiceImpl) Snapshot(ctx context.Context, opts ViewOptions) (cabinet.State, error) {
	supplies, err := s.supplyRepo.List(ctx)
	if err != nil {
		return cabinet.State{}, fmt.Errorf("list supplies: %w", err)
	}
	absences, err := s.absenceRepo.List(ctx)
	if err != nil {
		return cabinet.State{}, fmt.Errorf("list absences: %w", err)
	}

	state := cabinet.NewState().
		WithTab(opts.Tab).
		WithFilter(opts.Filter).
		WithColumns(opts.Columns)
	for _, supply := range supplies {
		state = state.WithSupply(supply)
	}
	for _, absence := range absences {
		state = state.WithAbsence(absence)
	}
	return state, nil
}

// Export renders the active tab to a spreadsheet
func (s *cabinetServiceImpl) Export(ctx context.Context, opts ViewOptions) (*port.ExportFile, error) {
	state, err := s.Snapshot(ctx, opts)
	if err != nil {
		s.logger.Error("Failed to load cabinet for export", "error", err)
		return nil, err
	}

	plan, err := cabinet.PlanExport(state)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	file, err := s.exporter.Export(ctx, plan)
	if err != nil {
		s.logger.Error("Failed to render export", "error", err, "filename", plan.FilenameBase)
		return nil, fmt.Errorf("render export: %w", err)
	}

	s.logger.Info("Cabinet export generated",
		"tab", string(plan.Tab),
		"filename", file.Filename,
		"rows", len(plan.Rows),
		"columns", len(plan.Columns))

	if s.archive != nil {
		s.archiveExport(ctx, file)
	}
	s.publish(ctx, event.NewEvent(event.TypeExportGenerated, "", map[string]any{
		event.KeyTab:      string(plan.Tab),
		event.KeyFilename: file.Filename,
		event.KeyRows:     len(plan.Rows),
	}))
	return file, nil
}

// archiveExport stores a timestamped copy; failures only get logged.
// Exports within the same second get a numeric suffix instead of
// replacing the earlier copy.
func (s *cabinetServiceImpl) archiveExport(ctx context.Context, file *port.ExportFile) {
	now := s.now()
	base := now.Format("2006-01-02") + "/" + stampFilename(file.Filename, now)
	name := base
	for n := 2; s.archive.Exists(ctx, name); n++ {
		name = suffixFilename(base, n)
	}
	if err := s.archive.Save(ctx, name, file.Content); err != nil {
		s.logger.Error("Failed to archive export", "error", err, "path", name)
		return
	}
	s.logger.Info("Export archived", "path", s.archive.GetFullPath(name))
}

func (s *cabinetServiceImpl) publish(ctx context.Context, evt *event.Event) {
	if s.events != nil {
		s.events.Publish(ctx, evt)
	}
}

func stampFilename(filename string, t time.Time) string {
	return suffixFilename(filename, t.Format("150405"))
}

// suffixFilename inserts _<suffix> before the extension
func suffixFilename(filename string, suffix any) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%s_%v%s", strings.TrimSuffix(filename, ext), suffix, ext)
}

func (s *cabinetServiceImpl) validateSupply(supply entity.Supply) error {
	rules := supplyRules{Item: supply.Item, PaymentType: supply.PaymentType, TaxStatus: supply.TaxStatus}
	if err := s.validate.Struct(rules); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	if !entity.IsValidPaymentType(supply.PaymentType) {
		return fmt.Errorf("%w: unknown payment type %q", ErrInvalidInput, supply.PaymentType)
	}
	if supply.PurchaseDate.IsZero() {
		return fmt.Errorf("%w: purchase date is required", ErrInvalidInput)
	}
	if supply.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}

func (s *cabinetServiceImpl) validateAbsence(absence entity.Absence) error {
	rules := absenceRules{Employee: absence.Employee, Reason: absence.Reason}
	if err := s.validate.Struct(rules); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	if absence.StartDate.IsZero() || absence.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if absence.EndDate.Before(absence.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidInput, absence.EndDate, absence.StartDate)
	}
	if !entity.IsValidAbsenceStatus(absence.Status) {
		return fmt.Errorf("%w: unknown absence status %q", ErrInvalidInput, absence.Status)
	}
	return nil
}

// describe flattens validator errors into "field: tag" pairs
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
