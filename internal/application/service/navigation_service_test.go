package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
	"github.com/cabinet-medical/cabinet-console/internal/domain/navigation"
)

func grants(perms ...string) *mockPermissionProvider {
	set := navigation.NewPermissionSet(perms...)
	return &mockPermissionProvider{hasPermissionFunc: func(ctx context.Context, subject, permission string) (bool, error) {
		return subject == "alice" && set.Has(permission), nil
	}}
}

func labels(items []navigation.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestNavigationService_Menu(t *testing.T) {
	tests := []struct {
		name       string
		subject    string
		perms      []string
		path       string
		wantLabels []string
		wantActive string
	}{
		{
			name:       "dashboard and supplies",
			subject:    "alice",
			perms:      []string{entity.PermViewDashboard, entity.PermViewSupplies},
			path:       "/cabinet",
			wantLabels: []string{"Tableau de bord", "Gestion Cabinet"},
			wantActive: "Gestion Cabinet",
		},
		{
			name:       "unknown subject sees nothing",
			subject:    "bob",
			perms:      entity.AllPermissions(),
			path:       "/",
			wantLabels: []string{},
		},
		{
			name:       "anonymous sees nothing",
			subject:    "",
			perms:      entity.AllPermissions(),
			path:       "/",
			wantLabels: []string{},
		},
		{
			name:       "prefix paths are not active",
			subject:    "alice",
			perms:      []string{entity.PermViewPatients},
			path:       "/patients/12",
			wantLabels: []string{"Patients"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewNavigationService(navigation.DefaultEntries(), grants(tt.perms...), &mockLogger{})

			items := svc.Menu(context.Background(), tt.subject, tt.path)
			assert.Equal(t, tt.wantLabels, labels(items))

			active, ok := navigation.ActiveItem(items)
			if tt.wantActive == "" {
				assert.False(t, ok)
			} else {
				assert.True(t, ok)
				assert.Equal(t, tt.wantActive, active.Label)
			}
		})
	}
}

func TestNavigationService_ProviderErrorHidesEntries(t *testing.T) {
	logger := &mockLogger{}
	provider := &mockPermissionProvider{hasPermissionFunc: func(ctx context.Context, subject, permission string) (bool, error) {
		if permission == entity.PermViewBilling {
			return false, errors.New("policy store unavailable")
		}
		return true, nil
	}}
	svc := NewNavigationService(navigation.DefaultEntries(), provider, logger)

	items := svc.Menu(context.Background(), "alice", "/")
	assert.NotContains(t, labels(items), "Gestion des paiements")
	assert.Len(t, items, 6)
	assert.Contains(t, logger.errors, "Permission check failed")
}

func TestNavigationService_MemoizesPerBuild(t *testing.T) {
	entries := []navigation.Entry{
		{Label: "A", Path: "/a", Permissions: []string{entity.PermViewSupplies}},
		{Label: "B", Path: "/b", Permissions: []string{entity.PermViewSupplies}},
	}
	provider := grants(entity.PermViewSupplies)
	svc := NewNavigationService(entries, provider, &mockLogger{})

	items := svc.Menu(context.Background(), "alice", "/b")
	assert.Equal(t, []string{"A", "B"}, labels(items))
	assert.Equal(t, 1, provider.calls)
}

func TestNavigationService_CanExport(t *testing.T) {
	svc := NewNavigationService(navigation.DefaultEntries(), grants(entity.PermExportData), &mockLogger{})
	assert.True(t, svc.CanExport(context.Background(), "alice"))
	assert.False(t, svc.CanExport(context.Background(), "bob"))

	svc = NewNavigationService(navigation.DefaultEntries(), grants(entity.PermViewSupplies), &mockLogger{})
	assert.False(t, svc.CanExport(context.Background(), "alice"))
}

func TestNavigationService_Roles(t *testing.T) {
	roles := &mockRoleProvider{rolesForFunc: func(subject string) ([]string, error) {
		switch subject {
		case "alice":
			return []string{"secretaire"}, nil
		case "broken":
			return nil, errors.New("adapter closed")
		}
		return nil, nil
	}}

	tests := []struct {
		name    string
		subject string
		opts    []NavigationOption
		want    []string
	}{
		{"assigned role", "alice", []NavigationOption{WithRoleProvider(roles)}, []string{"secretaire"}},
		{"no role", "bob", []NavigationOption{WithRoleProvider(roles)}, []string{}},
		{"anonymous", "", []NavigationOption{WithRoleProvider(roles)}, []string{}},
		{"provider failure", "broken", []NavigationOption{WithRoleProvider(roles)}, []string{}},
		{"no provider", "alice", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			svc := NewNavigationService(navigation.DefaultEntries(), grants(), logger, tt.opts...)
			assert.Equal(t, tt.want, svc.Roles(context.Background(), tt.subject))
			if tt.subject == "broken" {
				assert.NotEmpty(t, logger.errors)
			}
		})
	}
}
