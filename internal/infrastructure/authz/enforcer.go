// Package authz answers permission queries of console users with a casbin
// RBAC enforcer: users get roles, roles get permissions.
package authz

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	"go.uber.org/zap"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
)

//go:embed model.conf
var modelText string

//go:embed default_policy.csv
var defaultPolicy string

// Config selects the policy source. An empty PolicyPath loads the policy
// compiled into the binary.
type Config struct {
	PolicyPath string
}

// Enforcer implements port.PermissionProvider
type Enforcer struct {
	cfg      Config
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewEnforcer builds the RBAC enforcer and loads its policy
func NewEnforcer(cfg Config, logger *zap.Logger) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: invalid model: %w", err)
	}

	var adapter persist.Adapter
	source := cfg.PolicyPath
	if source == "" {
		adapter = stringadapter.NewAdapter(stripComments(defaultPolicy))
		source = "embedded"
	} else {
		adapter = fileadapter.NewAdapter(cfg.PolicyPath)
	}

	enf, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}

	logger.Info("Authorization policy loaded", zap.String("source", source))
	return &Enforcer{cfg: cfg, enforcer: enf, logger: logger}, nil
}

// HasPermission reports whether subject holds permission through one of its roles
func (e *Enforcer) HasPermission(ctx context.Context, subject, permission string) (bool, error) {
	start := time.Now()

	e.mu.RLock()
	allowed, err := e.enforcer.Enforce(subject, permission)
	e.mu.RUnlock()

	if err != nil {
		recordDecision(permission, "error", time.Since(start))
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	recordDecision(permission, result, time.Since(start))
	return allowed, nil
}

// RolesFor lists the roles directly assigned to subject
func (e *Enforcer) RolesFor(subject string) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	roles, err := e.enforcer.GetRolesForUser(subject)
	if err != nil {
		return nil, fmt.Errorf("authz: roles for %s: %w", subject, err)
	}
	return roles, nil
}

// ReloadPolicy reloads policy data from its source
func (e *Enforcer) ReloadPolicy(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("authz: reload policy failed: %w", err)
	}
	e.logger.Info("Authorization policy reloaded")
	return nil
}

// stripComments drops blank and '#' lines, which the string adapter rejects
func stripComments(policy string) string {
	var b strings.Builder
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Verify interface compliance
var _ port.PermissionProvider = (*Enforcer)(nil)
