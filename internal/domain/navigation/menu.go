// Package navigation builds the permission-gated sidebar of the console.
package navigation

import "github.com/cabinet-medical/cabinet-console/internal/domain/entity"

// Entry is a candidate sidebar link.
type Entry struct {
	Icon        string   `json:"icon"`
	Label       string   `json:"label"`
	Path        string   `json:"path"`
	Permissions []string `json:"permissions"`
}

// Item is an entry retained for the current user.
type Item struct {
	Entry
	Active bool `json:"active"`
}

// Checker answers permission queries for a single user.
type Checker interface {
	Has(permission string) bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(permission string) bool

// Has implements Checker.
func (f CheckerFunc) Has(permission string) bool { return f(permission) }

// PermissionSet is a Checker backed by a fixed set of identifiers.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from identifiers.
func NewPermissionSet(perms ...string) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has implements Checker.
func (s PermissionSet) Has(permission string) bool {
	_, ok := s[permission]
	return ok
}

// DefaultEntries returns the console sidebar in display order.
func DefaultEntries() []Entry {
	return []Entry{
		{Icon: "layout-dashboard", Label: "Tableau de bord", Path: "/", Permissions: []string{entity.PermViewDashboard}},
		{Icon: "calendar", Label: "Agenda", Path: "/appointments", Permissions: []string{entity.PermViewAppointments}},
		{Icon: "users", Label: "Patients", Path: "/patients", Permissions: []string{entity.PermViewPatients}},
		{Icon: "file-text", Label: "Documents médicaux", Path: "/treatments", Permissions: []string{entity.PermViewTreatments}},
		{Icon: "credit-card", Label: "Gestion des paiements", Path: "/billing", Permissions: []string{entity.PermViewBilling}},
		{Icon: "package", Label: "Gestion Cabinet", Path: "/cabinet", Permissions: []string{entity.PermViewSupplies}},
		{Icon: "user-plus", Label: "Gestion Utilisateurs", Path: "/admin", Permissions: []string{entity.PermManageUsers}},
	}
}

// Build keeps the entries for which the checker grants at least one permission,
// preserving their order, and marks the entry whose path equals currentPath.
func Build(entries []Entry, perms Checker, currentPath string) []Item {
	items := make([]Item, 0, len(entries))
	if perms == nil {
		return items
	}
	for _, e := range entries {
		if !grantsAny(perms, e.Permissions) {
			continue
		}
		items = append(items, Item{Entry: e, Active: e.Path == currentPath})
	}
	return items
}

// ActiveItem returns the highlighted item, if any.
func ActiveItem(items []Item) (Item, bool) {
	for _, it := range items {
		if it.Active {
			return it, true
		}
	}
	return Item{}, false
}

func grantsAny(perms Checker, required []string) bool {
	for _, p := range required {
		if perms.Has(p) {
			return true
		}
	}
	return false
}
