package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/ledger"
)

func TestParseWindow(t *testing.T) {
	w, err := ledger.ParseWindow("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01..2024-01-31", w.String())

	same, err := ledger.ParseWindow("2024-01-05", "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, same.Begin, same.End)
}

func TestParseWindowRejects(t *testing.T) {
	tests := []struct {
		name       string
		begin, end string
	}{
		{"short month", "2024-1-01", "2024-01-31"},
		{"empty begin", "", "2024-01-31"},
		{"empty end", "2024-01-01", ""},
		{"not a date", "2024-13-01", "2024-01-31"},
		{"with time", "2024-01-01T00", "2024-01-31"},
		{"end before begin", "2024-02-01", "2024-01-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.ParseWindow(tt.begin, tt.end)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestWindowRange(t *testing.T) {
	w, err := ledger.ParseWindow("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	from, to := w.Range(loc)
	assert.Equal(t, "2024-01-01T00:00:00-06:00", from.Format(time.RFC3339))
	assert.Equal(t, "2024-01-31T23:59:59-06:00", to.Format(time.RFC3339))
}
