package cabinet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

func TestNewState(t *testing.T) {
	s := NewState()

	assert.Equal(t, TabSupplies, s.Tab)
	assert.Empty(t, s.Supplies)
	assert.Empty(t, s.Absences)
	assert.Equal(t, AllColumns(), s.Columns)
	assert.True(t, s.Filter.Range.Valid())
	assert.Equal(t, s.Filter.Range.Start, s.Filter.Range.End)
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("")
	require.NoError(t, err)
	assert.Equal(t, TabSupplies, tab)

	tab, err = ParseTab("absences")
	require.NoError(t, err)
	assert.Equal(t, TabAbsences, tab)

	_, err = ParseTab("patients")
	assert.ErrorIs(t, err, ErrUnknownTab)
}

func TestState_WithTabKeepsFiltersAndRecords(t *testing.T) {
	filter := Filter{Search: "pap", Range: ParseDateRange("2024-03-01", "2024-03-31")}
	s := DemoState().WithFilter(filter)

	switched := s.WithTab(TabAbsences).WithTab(TabSupplies)

	assert.Equal(t, filter, switched.Filter)
	assert.Equal(t, s.Supplies, switched.Supplies)
	assert.Equal(t, s.Absences, switched.Absences)
}

func TestState_WithSupplyAppendsWithoutMutating(t *testing.T) {
	base := DemoState()
	extra := entity.Supply{ID: "3", Item: "Gel hydroalcoolique", PurchaseDate: entity.NewDate(2024, time.March, 18)}

	// appending twice from the same base must not share storage
	a := base.WithSupply(extra)
	b := base.WithSupply(entity.Supply{ID: "4", Item: "Masques"})

	assert.Len(t, base.Supplies, 2)
	require.Len(t, a.Supplies, 3)
	require.Len(t, b.Supplies, 3)
	assert.Equal(t, "3", a.Supplies[2].ID)
	assert.Equal(t, "4", b.Supplies[2].ID)
}

func TestState_WithAbsenceAppends(t *testing.T) {
	base := DemoState()
	next := base.WithAbsence(entity.Absence{ID: "2", Employee: "Karim Assistant", Status: entity.AbsenceStatusPending})

	require.Len(t, next.Absences, 2)
	assert.Equal(t, "2", next.Absences[1].ID)
	assert.Len(t, base.Absences, 1)
}

func TestState_WithAbsenceStatus(t *testing.T) {
	base := DemoState().
		WithAbsence(entity.Absence{ID: "2", Employee: "Karim", Reason: "Maladie", Status: entity.AbsenceStatusPending}).
		WithAbsence(entity.Absence{ID: "3", Employee: "Salma", Reason: "Formation", Status: entity.AbsenceStatusPending})

	t.Run("replaces in place", func(t *testing.T) {
		next, ok := base.WithAbsenceStatus("2", entity.AbsenceStatusApproved)

		require.True(t, ok)
		require.Len(t, next.Absences, 3)
		for i := range base.Absences {
			want := base.Absences[i]
			if want.ID == "2" {
				want.Status = entity.AbsenceStatusApproved
			}
			assert.Equal(t, want, next.Absences[i])
		}
		// the receiver still holds the previous status
		assert.Equal(t, entity.AbsenceStatusPending, base.Absences[1].Status)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		next, ok := base.WithAbsenceStatus("42", entity.AbsenceStatusRejected)

		assert.False(t, ok)
		assert.Equal(t, base.Absences, next.Absences)
	})
}
