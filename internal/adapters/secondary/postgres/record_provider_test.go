package postgres

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestProvider is a helper to create a provider for a test.
func newTestProvider(t *testing.T) *RecordProvider {
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")
	return NewRecordProvider(testPool, slog.Default())
}

// seedEvents truncates the table and inserts the given rows.
func seedEvents(t *testing.T, rows [][]any) {
	ctx := context.Background()

	_, err := testPool.Exec(ctx, "TRUNCATE approval_events")
	require.NoError(t, err)

	for _, row := range rows {
		_, err := testPool.Exec(ctx,
			"INSERT INTO approval_events (technician, approved_at, duration_seconds, case_number) VALUES ($1, $2, $3, $4)",
			row...,
		)
		require.NoError(t, err)
	}
}

func TestRecordProvider_Load(t *testing.T) {
	ctx := context.Background()
	provider := newTestProvider(t)

	seedEvents(t, [][]any{
		{"Arnold", time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC), 12.5, "CASE-1"},
		{"Arnold", time.Date(2021, 3, 1, 9, 5, 0, 0, time.UTC), 3.0, "CASE-2"},
		{"Mendez", time.Date(2021, 3, 2, 10, 0, 0, 0, time.UTC), 45.0, nil},
	})

	result, err := provider.Load(ctx)
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	assert.Equal(t, 0, result.Dropped)

	// Rows come back ordered by approval time.
	assert.Equal(t, "Arnold", result.Records[0].Technician)
	assert.Equal(t, 12.5, result.Records[0].DurationSeconds)
	assert.Equal(t, "CASE-1", result.Records[0].CaseNumber)
	assert.Equal(t, "", result.Records[2].CaseNumber)
	assert.True(t, result.Records[0].ApprovedAt.Before(result.Records[2].ApprovedAt))
}

func TestRecordProvider_Load_DropsInvalidDurations(t *testing.T) {
	ctx := context.Background()
	provider := newTestProvider(t)

	seedEvents(t, [][]any{
		{"Arnold", time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC), 12.5, "CASE-1"},
		{"Arnold", time.Date(2021, 3, 1, 9, 5, 0, 0, time.UTC), nil, "CASE-2"},
		{"Arnold", time.Date(2021, 3, 1, 9, 10, 0, 0, time.UTC), -4.0, "CASE-3"},
	})

	result, err := provider.Load(ctx)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, 2, result.Dropped)
	assert.Equal(t, "CASE-1", result.Records[0].CaseNumber)
}

func TestRecordProvider_Load_Empty(t *testing.T) {
	ctx := context.Background()
	provider := newTestProvider(t)

	seedEvents(t, nil)

	result, err := provider.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.Dropped)
}

func TestRecordProvider_Ping(t *testing.T) {
	provider := newTestProvider(t)
	assert.NoError(t, provider.Ping(context.Background()))
}
