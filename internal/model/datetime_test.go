package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocalDateTime(t *testing.T) {
	want := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "minutes", input: "2024-01-01T20:00", want: want},
		{name: "seconds", input: "2024-01-01T20:00:00", want: want},
		{name: "fraction", input: "2024-01-01T20:00:00.5", want: want.Add(500 * time.Millisecond)},
		{name: "rfc3339 keeps wall clock", input: "2024-01-01T20:00:00+02:00", want: want},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLocalDateTime(tc.input)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got.Time), "got %s", got.Time)
		})
	}

	for _, bad := range []string{"", "tomorrow", "2024-13-01T20:00", "01/01/2024 20:00"} {
		_, err := ParseLocalDateTime(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestLocalDateTime_JSON(t *testing.T) {
	var payload struct {
		At LocalDateTime `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-01-01T20:00"}`), &payload))
	assert.Equal(t, "2024-01-01T20:00:00", payload.At.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-01-01T20:00:00"}`, string(out))

	payload.At = LocalDateTime{}
	out, err = json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"at":12}`), &payload))
}
