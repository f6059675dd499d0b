package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
	"github.com/cabinet-medical/cabinet-console/internal/domain/event"
)

// Mock repositories
type mockSupplyRepo struct {
	createFunc func(ctx context.Context, supply *entity.Supply) error
	listFunc   func(ctx context.Context) ([]entity.Supply, error)
	created    []entity.Supply
}

func (m *mockSupplyRepo) Create(ctx context.Context, supply *entity.Supply) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, supply)
	}
	m.created = append(m.created, *supply)
	return nil
}

func (m *mockSupplyRepo) List(ctx context.Context) ([]entity.Supply, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return m.created, nil
}

type mockAbsenceRepo struct {
	createFunc       func(ctx context.Context, absence *entity.Absence) error
	listFunc         func(ctx context.Context) ([]entity.Absence, error)
	updateStatusFunc func(ctx context.Context, id, status string) (bool, error)
	created          []entity.Absence
}

func (m *mockAbsenceRepo) Create(ctx context.Context, absence *entity.Absence) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, absence)
	}
	m.created = append(m.created, *absence)
	return nil
}

func (m *mockAbsenceRepo) List(ctx context.Context) ([]entity.Absence, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return m.created, nil
}

func (m *mockAbsenceRepo) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return false, nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockExporter struct {
	exportFunc func(ctx context.Context, plan cabinet.ExportPlan) (*port.ExportFile, error)
	plans      []cabinet.ExportPlan
}

func (m *mockExporter) Export(ctx context.Context, plan cabinet.ExportPlan) (*port.ExportFile, error) {
	m.plans = append(m.plans, plan)
	if m.exportFunc != nil {
		return m.exportFunc(ctx, plan)
	}
	return &port.ExportFile{
		Filename:    plan.FilenameBase + ".xlsx",
		ContentType: "application/octet-stream",
		Content:     []byte(fmt.Sprintf("%d rows", len(plan.Rows))),
		Rows:        len(plan.Rows),
	}, nil
}

type mockStorage struct {
	saveFunc func(ctx context.Context, path string, content []byte) error
	saved    map[string][]byte
}

func (m *mockStorage) Save(ctx context.Context, path string, content []byte) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, path, content)
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[path] = content
	return nil
}

func (m *mockStorage) Exists(ctx context.Context, path string) bool {
	_, ok := m.saved[path]
	return ok
}

func (m *mockStorage) GetFullPath(path string) string {
	return "/archive/" + path
}

type mockPermissionProvider struct {
	hasPermissionFunc func(ctx context.Context, subject, permission string) (bool, error)
	mu                sync.Mutex
	calls             int
}

func (m *mockPermissionProvider) HasPermission(ctx context.Context, subject, permission string) (bool, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.hasPermissionFunc != nil {
		return m.hasPermissionFunc(ctx, subject, permission)
	}
	return false, nil
}

type mockRoleProvider struct {
	rolesForFunc func(subject string) ([]string, error)
}

func (m *mockRoleProvider) RolesFor(subject string) ([]string, error) {
	if m.rolesForFunc != nil {
		return m.rolesForFunc(subject)
	}
	return nil, nil
}

type mockLogger struct {
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.errors = append(m.errors, msg)
}

type mockPublisher struct {
	events []*event.Event
}

func (m *mockPublisher) Publish(ctx context.Context, evt *event.Event) {
	m.events = append(m.events, evt)
}

func (m *mockPublisher) types() []event.Type {
	types := make([]event.Type, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}
