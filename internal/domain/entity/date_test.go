package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "display layout", input: "15/03/2024", want: NewDate(2024, time.March, 15)},
		{name: "iso layout", input: "2024-03-15", want: NewDate(2024, time.March, 15)},
		{name: "surrounding spaces", input: " 01/12/2023 ", want: NewDate(2023, time.December, 1)},
		{name: "day out of range", input: "32/01/2024", wantErr: true},
		{name: "month first", input: "03/15/2024", wantErr: true},
		{name: "garbage", input: "hier", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestDate_Formatting(t *testing.T) {
	d := NewDate(2024, time.March, 5)

	assert.Equal(t, "05/03/2024", d.String())
	assert.Equal(t, "2024-03-05", d.ISO())
	assert.Equal(t, "", Date{}.String())
}

func TestDate_JSON(t *testing.T) {
	t.Run("marshals display format", func(t *testing.T) {
		data, err := json.Marshal(NewDate(2024, time.March, 20))
		require.NoError(t, err)
		assert.JSONEq(t, `"20/03/2024"`, string(data))
	})

	t.Run("unmarshals both layouts", func(t *testing.T) {
		var a, b Date
		require.NoError(t, json.Unmarshal([]byte(`"20/03/2024"`), &a))
		require.NoError(t, json.Unmarshal([]byte(`"2024-03-20"`), &b))
		assert.True(t, a.Equal(b))
	})

	t.Run("rejects numbers", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`20240320`), &d))
	})
}

func TestDate_Ordering(t *testing.T) {
	early := NewDate(2024, time.March, 1)
	late := NewDate(2024, time.March, 31)

	assert.True(t, early.Before(late))
	assert.True(t, late.After(early))
	assert.False(t, early.Before(early))
}
