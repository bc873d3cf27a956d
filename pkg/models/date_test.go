package models

import (
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(struct {
		DueBack *Date `json:"due_back"`
	}{DueBack: ptr(NewDate(2024, time.March, 9))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due_back":"2024-03-09"}`, string(b))

	var out struct {
		DueBack *Date `json:"due_back"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due_back":"2099-01-01"}`), &out))
	require.NotNil(t, out.DueBack)
	assert.True(t, out.DueBack.Equal(NewDate(2099, time.January, 1)))
}

func TestDate_Scan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  interface{}
		want Date
	}{
		{"text", "2024-01-01", NewDate(2024, time.January, 1)},
		{"bytes", []byte("2024-01-02"), NewDate(2024, time.January, 2)},
		{"timestamp text", "2024-01-03 00:00:00+00:00", NewDate(2024, time.January, 3)},
		{"time", time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC), NewDate(2024, time.January, 4)},
		{"null", nil, Date{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.True(t, tt.want.Equal(d), "got %s", d)
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	t.Parallel()

	d := DateOf(time.Date(2024, time.May, 1, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2024-05-01", d.String())
	assert.Equal(t, "2024-05-29", d.AddDays(28).String())
}

func ptr[T any](v T) *T {
	return &v
}
