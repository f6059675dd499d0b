package container

import (
	"context"
	"fmt"

	"github.com/cabinet-medical/cabinet-console/internal/application/dispatcher"
	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/application/service"
	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
	"github.com/cabinet-medical/cabinet-console/internal/domain/event"
	"github.com/cabinet-medical/cabinet-console/internal/domain/navigation"
	"github.com/cabinet-medical/cabinet-console/internal/infrastructure/authz"
	"github.com/cabinet-medical/cabinet-console/internal/infrastructure/export"
	"github.com/cabinet-medical/cabinet-console/internal/infrastructure/persistence/memory"
	"github.com/cabinet-medical/cabinet-console/internal/infrastructure/persistence/repository"
	"github.com/cabinet-medical/cabinet-console/internal/infrastructure/persistence/sqlite"
	"github.com/cabinet-medical/cabinet-console/internal/infrastructure/storage"
	"github.com/cabinet-medical/cabinet-console/internal/observability"
	"github.com/cabinet-medical/cabinet-console/pkg/database"
	"go.uber.org/zap"
)

// StoreBundle holds the record store selected by DatabaseConfig.Driver.
type StoreBundle struct {
	// DB is nil for the memory driver
	DB           *database.DB
	TxManager    port.TransactionManager
	Repositories *RepositoryBundle
}

// ProvideStore opens the configured record store. The sqlite driver runs
// the embedded migrations before any repository is handed out.
func ProvideStore(cfg *DatabaseConfig, logger *zap.Logger) (*StoreBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if cfg.Driver == DriverMemory {
		store := memory.NewStore()
		return &StoreBundle{
			TxManager: store,
			Repositories: &RepositoryBundle{
				Supply:  store.Supplies(),
				Absence: store.Absences(),
			},
		}, nil
	}

	db, err := ProvideDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}
	txManager := sqlite.NewDB(db)

	return &StoreBundle{
		DB:           db,
		TxManager:    txManager,
		Repositories: ProvideRepositories(txManager, logger),
	}, nil
}

// ProvideDatabase opens the SQLite file and applies pending migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*database.DB, error) {
	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	// Startup migrations are not cancellable
	if _, err := database.NewMigrator(db, logger).ApplyEmbedded(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// ProvideRepositories creates the SQLite-backed repositories.
func ProvideRepositories(db *sqlite.DB, logger *zap.Logger) *RepositoryBundle {
	return &RepositoryBundle{
		Supply:  repository.NewSupplyRepository(db, logger),
		Absence: repository.NewAbsenceRepository(db, logger),
	}
}

// SeedDemo loads the sample records when the store is empty. Running it on
// every start is safe.
func SeedDemo(ctx context.Context, repos *RepositoryBundle, logger *zap.Logger) error {
	supplies, err := repos.Supply.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list supplies: %w", err)
	}
	absences, err := repos.Absence.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list absences: %w", err)
	}
	if len(supplies) > 0 || len(absences) > 0 {
		logger.Info("Store already populated, skipping demo data",
			zap.Int("supplies", len(supplies)), zap.Int("absences", len(absences)))
		return nil
	}

	for _, s := range cabinet.DemoSupplies() {
		if err := repos.Supply.Create(ctx, &s); err != nil {
			return fmt.Errorf("failed to seed supply %s: %w", s.ID, err)
		}
	}
	for _, a := range cabinet.DemoAbsences() {
		if err := repos.Absence.Create(ctx, &a); err != nil {
			return fmt.Errorf("failed to seed absence %s: %w", a.ID, err)
		}
	}

	logger.Info("Demo data loaded",
		zap.Int("supplies", len(cabinet.DemoSupplies())),
		zap.Int("absences", len(cabinet.DemoAbsences())))
	return nil
}

// ProvidePermissions creates the casbin-backed permission provider.
func ProvidePermissions(cfg *AuthzConfig, logger *zap.Logger) (*authz.Enforcer, error) {
	enforcer, err := authz.NewEnforcer(authz.Config{PolicyPath: cfg.PolicyPath}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	return enforcer, nil
}

// ProvideArchive returns the export archive, or nil when archiving is off.
func ProvideArchive(cfg *ExportConfig, logger *zap.Logger) port.FileStorage {
	if cfg.ArchiveDir == "" {
		return nil
	}
	return storage.NewLocalFileStorage(cfg.ArchiveDir, logger)
}

// ProvideDispatcher creates the event dispatcher and registers the audit
// log and metrics handlers.
func ProvideDispatcher(metrics *observability.Metrics, logger *zap.Logger) dispatcher.Dispatcher {
	d := dispatcher.NewDispatcher(dispatcher.WithLogger(&zapLoggerAdapter{logger: logger.Named("events")}))

	d.SubscribeAll("audit-log", createAuditHandler(logger.Named("audit")))
	d.SubscribeNamed(event.TypeAbsenceStatusChanged, "status-metrics", func(ctx context.Context, evt *event.Event) error {
		metrics.RecordStatusChange(evt.GetPayloadString(event.KeyStatus))
		return nil
	})

	return d
}

// createAuditHandler writes one structured line per cabinet change.
func createAuditHandler(logger *zap.Logger) dispatcher.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		fields := []zap.Field{
			zap.String("event_id", evt.ID),
			zap.String("event_type", evt.Type.String()),
			zap.Time("at", evt.Timestamp),
		}
		if evt.RecordID != "" {
			fields = append(fields, zap.String("record_id", evt.RecordID))
		}
		for k, v := range evt.Payload {
			fields = append(fields, zap.Any(k, v))
		}
		logger.Info("Cabinet change", fields...)
		return nil
	}
}

// ServiceDeps holds dependencies needed to create services.
type ServiceDeps struct {
	Repos       *RepositoryBundle
	TxManager   port.TransactionManager
	Permissions port.PermissionProvider
	Roles       port.RoleProvider
	Archive     port.FileStorage
	Events      port.EventPublisher
	Logger      *zap.Logger
}

// ProvideServices creates the application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Permissions == nil {
		return nil, fmt.Errorf("permission provider is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	logger := &zapLoggerAdapter{logger: deps.Logger}

	var opts []service.CabinetOption
	if deps.Archive != nil {
		opts = append(opts, service.WithExportArchive(deps.Archive))
	}
	if deps.Events != nil {
		opts = append(opts, service.WithEventPublisher(deps.Events))
	}

	var navOpts []service.NavigationOption
	if deps.Roles != nil {
		navOpts = append(navOpts, service.WithRoleProvider(deps.Roles))
	}

	return &ServiceBundle{
		Cabinet: service.NewCabinetService(
			deps.Repos.Supply,
			deps.Repos.Absence,
			deps.TxManager,
			export.NewXLSXExporter(deps.Logger),
			logger,
			opts...,
		),
		Navigation: service.NewNavigationService(
			navigation.DefaultEntries(),
			deps.Permissions,
			logger,
			navOpts...,
		),
	}, nil
}
