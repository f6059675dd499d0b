package service

import (
	"context"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
	"github.com/cabinet-medical/cabinet-console/internal/domain/navigation"
)

// NavigationService builds the sidebar of a console user
type NavigationService interface {
	Menu(ctx context.Context, subject, currentPath string) []navigation.Item
	Can(ctx context.Context, subject, permission string) bool
	CanExport(ctx context.Context, subject string) bool
	Roles(ctx context.Context, subject string) []string
}

type navigationServiceImpl struct {
	entries     []navigation.Entry
	permissions port.PermissionProvider
	roles       port.RoleProvider
	logger      Logger
}

// NavigationOption customizes the navigation service
type NavigationOption func(*navigationServiceImpl)

// WithRoleProvider reports the roles behind a user's permissions
func WithRoleProvider(roles port.RoleProvider) NavigationOption {
	return func(s *navigationServiceImpl) { s.roles = roles }
}

// NewNavigationService creates a new NavigationService over the given entries
func NewNavigationService(entries []navigation.Entry, permissions port.PermissionProvider, logger Logger, opts ...NavigationOption) NavigationService {
	s := &navigationServiceImpl{
		entries:     entries,
		permissions: permissions,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Menu returns the entries the subject may see for the current route
func (s *navigationServiceImpl) Menu(ctx context.Context, subject, currentPath string) []navigation.Item {
	return navigation.Build(s.entries, s.checker(ctx, subject), currentPath)
}

// Can reports whether the subject holds a permission. Provider failures
// count as "not granted": missing permissions hide features.
func (s *navigationServiceImpl) Can(ctx context.Context, subject, permission string) bool {
	if subject == "" {
		return false
	}
	ok, err := s.permissions.HasPermission(ctx, subject, permission)
	if err != nil {
		s.logger.Error("Permission check failed", "error", err, "subject", subject, "permission", permission)
		return false
	}
	return ok
}

// CanExport gates the export button and endpoints
func (s *navigationServiceImpl) CanExport(ctx context.Context, subject string) bool {
	return s.Can(ctx, subject, entity.PermExportData)
}

// Roles lists the subject's roles. Without a role provider, or when it
// fails, the list is empty.
func (s *navigationServiceImpl) Roles(ctx context.Context, subject string) []string {
	if s.roles == nil || subject == "" {
		return []string{}
	}
	roles, err := s.roles.RolesFor(subject)
	if err != nil {
		s.logger.Error("Role lookup failed", "error", err, "subject", subject)
		return []string{}
	}
	if roles == nil {
		return []string{}
	}
	return roles
}

// checker memoizes answers for the duration of one menu build
func (s *navigationServiceImpl) checker(ctx context.Context, subject string) navigation.Checker {
	cache := make(map[string]bool)
	return navigation.CheckerFunc(func(permission string) bool {
		if granted, ok := cache[permission]; ok {
			return granted
		}
		granted := s.Can(ctx, subject, permission)
		cache[permission] = granted
		return granted
	})
}
