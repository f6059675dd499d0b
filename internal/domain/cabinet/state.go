// Package cabinet holds the supplies and absences view of the cabinet
// management page as an immutable state value.
package cabinet

import (
	"slices"

	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

// Tab selects which collection the view shows.
type Tab string

const (
	TabSupplies Tab = "supplies"
	TabAbsences Tab = "absences"
)

// ParseTab validates a tab name; the empty string selects supplies.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "", TabSupplies:
		return TabSupplies, nil
	case TabAbsences:
		return TabAbsences, nil
	}
	return "", ErrUnknownTab
}

// State is the cabinet view. Every With* method returns a new State and
// leaves the receiver untouched.
type State struct {
	Tab      Tab
	Supplies []entity.Supply
	Absences []entity.Absence
	Filter   Filter
	Columns  ColumnSelection
}

// NewState returns the initial view: supplies tab, today's range, every
// export column selected.
func NewState() State {
	return State{
		Tab:     TabSupplies,
		Filter:  Filter{Range: TodayRange()},
		Columns: AllColumns(),
	}
}

// WithTab switches the visible collection. Filters and records are kept.
func (s State) WithTab(tab Tab) State {
	s.Tab = tab
	return s
}

// WithSupply appends a supply.
func (s State) WithSupply(supply entity.Supply) State {
	s.Supplies = append(slices.Clip(s.Supplies), supply)
	return s
}

// WithAbsence appends an absence.
func (s State) WithAbsence(absence entity.Absence) State {
	s.Absences = append(slices.Clip(s.Absences), absence)
	return s
}

// WithAbsenceStatus replaces the status of the absence with the given id.
// The boolean is false, and the state unchanged, when no absence matches.
func (s State) WithAbsenceStatus(id, status string) (State, bool) {
	idx := slices.IndexFunc(s.Absences, func(a entity.Absence) bool { return a.ID == id })
	if idx < 0 {
		return s, false
	}
	absences := slices.Clone(s.Absences)
	absences[idx].Status = status
	s.Absences = absences
	return s, true
}

// WithFilter replaces the search text and range.
func (s State) WithFilter(f Filter) State {
	s.Filter = f
	return s
}

// WithColumns replaces the export column selection.
func (s State) WithColumns(c ColumnSelection) State {
	s.Columns = c
	return s
}

// FilteredSupplies returns the supplies visible under the current filter.
func (s State) FilteredSupplies() []entity.Supply {
	return s.Filter.Apply(s.Supplies)
}
