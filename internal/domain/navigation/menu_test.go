package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

func paths(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Path)
	}
	return out
}

func TestBuild_FiltersByPermission(t *testing.T) {
	tests := []struct {
		name  string
		perms PermissionSet
		want  []string
	}{
		{
			name:  "no permissions yields empty menu",
			perms: NewPermissionSet(),
			want:  []string{},
		},
		{
			name:  "all permissions yields full menu in order",
			perms: NewPermissionSet(entity.AllPermissions()...),
			want:  []string{"/", "/appointments", "/patients", "/treatments", "/billing", "/cabinet", "/admin"},
		},
		{
			name:  "secretary subset keeps relative order",
			perms: NewPermissionSet(entity.PermViewSupplies, entity.PermViewDashboard, entity.PermViewBilling),
			want:  []string{"/", "/billing", "/cabinet"},
		},
		{
			name:  "gated entries disappear without their permission",
			perms: NewPermissionSet(entity.PermViewAppointments, entity.PermViewPatients),
			want:  []string{"/appointments", "/patients"},
		},
		{
			name:  "unrelated permissions are ignored",
			perms: NewPermissionSet(entity.PermExportData, "delete_everything"),
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Build(DefaultEntries(), tt.perms, "/")
			assert.Equal(t, tt.want, paths(items))
		})
	}
}

func TestBuild_AnyPermissionIsEnough(t *testing.T) {
	entries := []Entry{
		{Label: "Shared", Path: "/shared", Permissions: []string{"a", "b"}},
		{Label: "Only C", Path: "/c", Permissions: []string{"c"}},
		{Label: "Nobody", Path: "/nobody", Permissions: nil},
	}

	items := Build(entries, NewPermissionSet("b"), "")

	require.Len(t, items, 1)
	assert.Equal(t, "/shared", items[0].Path)
}

func TestBuild_MatchesSetIntersection(t *testing.T) {
	all := entity.AllPermissions()
	entries := DefaultEntries()

	// every subset of the permission identifiers
	for mask := 0; mask < 1<<len(all); mask++ {
		var granted []string
		for i, p := range all {
			if mask&(1<<i) != 0 {
				granted = append(granted, p)
			}
		}
		set := NewPermissionSet(granted...)

		want := []string{}
		for _, e := range entries {
			for _, p := range e.Permissions {
				if set.Has(p) {
					want = append(want, e.Path)
					break
				}
			}
		}

		assert.Equal(t, want, paths(Build(entries, set, "")), "granted=%v", granted)
	}
}

func TestBuild_ActiveLink(t *testing.T) {
	perms := NewPermissionSet(entity.AllPermissions()...)

	tests := []struct {
		name       string
		path       string
		wantActive string
		wantFound  bool
	}{
		{name: "root", path: "/", wantActive: "/", wantFound: true},
		{name: "cabinet", path: "/cabinet", wantActive: "/cabinet", wantFound: true},
		{name: "subpath is not a match", path: "/cabinet/absences", wantFound: false},
		{name: "trailing slash is not a match", path: "/billing/", wantFound: false},
		{name: "unknown route", path: "/nowhere", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Build(DefaultEntries(), perms, tt.path)

			active := 0
			for _, it := range items {
				if it.Active {
					active++
				}
			}

			item, found := ActiveItem(items)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, 1, active)
				assert.Equal(t, tt.wantActive, item.Path)
			} else {
				assert.Zero(t, active)
			}
		})
	}
}

func TestBuild_NilChecker(t *testing.T) {
	assert.Empty(t, Build(DefaultEntries(), nil, "/"))
}

func TestCheckerFunc(t *testing.T) {
	calls := 0
	checker := CheckerFunc(func(p string) bool {
		calls++
		return p == entity.PermViewBilling
	})

	items := Build(DefaultEntries(), checker, "/billing")

	require.Len(t, items, 1)
	assert.True(t, items[0].Active)
	assert.Equal(t, len(DefaultEntries()), calls)
}
