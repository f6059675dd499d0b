package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	evt := NewEvent(TypeSupplyAdded, "S-1", map[string]any{KeyItem: "Stylos"})

	require.NotNil(t, evt)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, TypeSupplyAdded, evt.Type)
	assert.Equal(t, "S-1", evt.RecordID)
	assert.Equal(t, "Stylos", evt.GetPayloadString(KeyItem))
	assert.False(t, evt.Timestamp.IsZero())
}

func TestNewEvent_NilPayload(t *testing.T) {
	evt := NewEvent(TypeExportGenerated, "", nil)
	require.NotNil(t, evt.Payload)
	assert.Empty(t, evt.GetPayloadString(KeyFilename))
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		evt := NewEvent(TypeAbsenceAdded, "A-1", nil)
		assert.False(t, seen[evt.ID], "duplicate id %s", evt.ID)
		seen[evt.ID] = true
	}
}

func TestEvent_WithPayloadIsImmutable(t *testing.T) {
	original := NewEvent(TypeExportGenerated, "", map[string]any{KeyTab: "supplies"})
	updated := original.WithPayload(KeyFilename, "fournitures_2024-03-01_2024-03-31.xlsx")

	assert.Equal(t, "fournitures_2024-03-01_2024-03-31.xlsx", updated.GetPayloadString(KeyFilename))
	assert.Empty(t, original.GetPayloadString(KeyFilename))
	assert.Equal(t, "supplies", updated.GetPayloadString(KeyTab))
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.RecordID, updated.RecordID)
	assert.Equal(t, original.Timestamp, updated.Timestamp)
}

func TestEvent_GetPayloadInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 3, 3},
		{"int64", int64(7), 7},
		{"float64 from JSON", float64(12), 12},
		{"string", "4", 0},
		{"missing", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := map[string]any{}
			if tt.value != nil {
				payload[KeyRows] = tt.value
			}
			evt := NewEvent(TypeExportGenerated, "", payload)
			assert.Equal(t, tt.want, evt.GetPayloadInt(KeyRows))
		})
	}
}

func TestType_IsValid(t *testing.T) {
	for _, typ := range Types() {
		assert.True(t, typ.IsValid(), typ.String())
	}
	assert.False(t, Type("instance.created").IsValid())
	assert.False(t, Type("").IsValid())
}
