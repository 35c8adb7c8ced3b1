package csvfile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCSV writes a test fixture and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "approvals.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRecordProvider_Load(t *testing.T) {
	path := writeCSV(t, `TECHNICIAN,APPROVAL_DATE,DURATION_SEC,CASE_NUMBER
Arnold,2021-03-01 09:00:00,12.5,CASE-1
Arnold,2021-03-01 09:05:00,3,CASE-2
Mendez,2021-03-02 10:00:00,45,CASE-3
`)

	provider := NewRecordProvider(path, slog.Default())
	result, err := provider.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	assert.Equal(t, 0, result.Dropped)

	first := result.Records[0]
	assert.Equal(t, "Arnold", first.Technician)
	assert.Equal(t, time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC), first.ApprovedAt)
	assert.Equal(t, 12.5, first.DurationSeconds)
	assert.Equal(t, "CASE-1", first.CaseNumber)
}

func TestRecordProvider_Load_DropsMalformedRows(t *testing.T) {
	path := writeCSV(t, `TECHNICIAN,APPROVAL_DATE,DURATION_SEC,CASE_NUMBER
Arnold,2021-03-01 09:00:00,12.5,CASE-1
Arnold,not-a-date,3,CASE-2
Arnold,2021-03-01 09:10:00,,CASE-3
Arnold,2021-03-01 09:15:00,-4,CASE-4
,2021-03-01 09:20:00,5,CASE-5
`)

	provider := NewRecordProvider(path, slog.Default())
	result, err := provider.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, 4, result.Dropped)
	assert.Equal(t, "CASE-1", result.Records[0].CaseNumber)
}

func TestRecordProvider_Load_AcceptsRFC3339Timestamps(t *testing.T) {
	path := writeCSV(t, `TECHNICIAN,APPROVAL_DATE,DURATION_SEC,CASE_NUMBER
Shawn,2021-03-01T09:00:00Z,8,CASE-1
Shawn,2021-03-01T10:00:00,9,CASE-2
`)

	provider := NewRecordProvider(path, slog.Default())
	result, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 0, result.Dropped)
}

func TestRecordProvider_Load_MissingColumn(t *testing.T) {
	path := writeCSV(t, `TECHNICIAN,DURATION_SEC
Arnold,12.5
`)

	provider := NewRecordProvider(path, slog.Default())
	_, err := provider.Load(context.Background())
	assert.Error(t, err)
}

func TestRecordProvider_Load_MissingFile(t *testing.T) {
	provider := NewRecordProvider(filepath.Join(t.TempDir(), "missing.csv"), slog.Default())
	_, err := provider.Load(context.Background())
	assert.Error(t, err)
}

func TestRecordProvider_Load_CaseNumberOptional(t *testing.T) {
	path := writeCSV(t, `TECHNICIAN,APPROVAL_DATE,DURATION_SEC
Arnold,2021-03-01 09:00:00,12.5
`)

	provider := NewRecordProvider(path, slog.Default())
	result, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "", result.Records[0].CaseNumber)
}

func TestRecordProvider_Ping(t *testing.T) {
	path := writeCSV(t, "TECHNICIAN,APPROVAL_DATE,DURATION_SEC\n")
	provider := NewRecordProvider(path, slog.Default())
	assert.NoError(t, provider.Ping(context.Background()))

	missing := NewRecordProvider(filepath.Join(t.TempDir(), "nope.csv"), slog.Default())
	assert.Error(t, missing.Ping(context.Background()))
}
