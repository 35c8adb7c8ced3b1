package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
	"github.com/clearcheck/approval-analytics-backend/internal/core/ports"
)

// Column headers expected in the export file.
const (
	colTechnician = "TECHNICIAN"
	colApprovedAt = "APPROVAL_DATE"
	colDuration   = "DURATION_SEC"
	colCaseNumber = "CASE_NUMBER"
)

// timestampLayouts are tried in order when parsing APPROVAL_DATE. Exports
// have shipped with and without a timezone suffix.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// RecordProvider loads approval records from a CSV export on disk.
type RecordProvider struct {
	path   string
	logger *slog.Logger
}

// Ensure RecordProvider implements the port.
var _ ports.RecordProvider = (*RecordProvider)(nil)

// NewRecordProvider creates a CSV-backed record provider
func NewRecordProvider(path string, logger *slog.Logger) *RecordProvider {
	return &RecordProvider{
		path:   path,
		logger: logger.With("component", "csv_provider", "path", path),
	}
}

// Load reads and parses the whole file. Rows that cannot be parsed are
// dropped and counted rather than failing the load.
func (p *RecordProvider) Load(ctx context.Context) (*ports.LoadResult, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	result := &ports.LoadResult{}
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed quoting or similar. Count and keep going.
			result.Dropped++
			line++
			continue
		}
		line++

		record, ok := p.parseRow(row, cols, line)
		if !ok {
			result.Dropped++
			continue
		}
		result.Records = append(result.Records, record)
	}

	p.logger.InfoContext(ctx, "csv load complete",
		"records", len(result.Records),
		"dropped", result.Dropped,
	)
	return result, nil
}

// Ping checks that the file exists and is readable.
func (p *RecordProvider) Ping(ctx context.Context) error {
	info, err := os.Stat(p.path)
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("csv path %s is a directory", p.path)
	}
	return nil
}

// columnIndexes records where each expected column sits in the header.
type columnIndexes struct {
	technician int
	approvedAt int
	duration   int
	caseNumber int
}

func mapColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{technician: -1, approvedAt: -1, duration: -1, caseNumber: -1}
	for i, name := range header {
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case colTechnician:
			cols.technician = i
		case colApprovedAt:
			cols.approvedAt = i
		case colDuration:
			cols.duration = i
		case colCaseNumber:
			cols.caseNumber = i
		}
	}
	if cols.technician < 0 || cols.approvedAt < 0 || cols.duration < 0 {
		return cols, fmt.Errorf("csv header missing required columns, got %v", header)
	}
	return cols, nil
}

func (p *RecordProvider) parseRow(row []string, cols columnIndexes, line int) (domain.ApprovalRecord, bool) {
	var record domain.ApprovalRecord

	if cols.technician >= len(row) || cols.approvedAt >= len(row) || cols.duration >= len(row) {
		p.logger.Debug("dropping short row", "line", line)
		return record, false
	}

	technician := strings.TrimSpace(row[cols.technician])
	if technician == "" {
		p.logger.Debug("dropping row with empty technician", "line", line)
		return record, false
	}

	approvedAt, err := parseTimestamp(strings.TrimSpace(row[cols.approvedAt]))
	if err != nil {
		p.logger.Debug("dropping row with bad timestamp", "line", line, "error", err)
		return record, false
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(row[cols.duration]), 64)
	if err != nil || duration < 0 {
		p.logger.Debug("dropping row with bad duration", "line", line)
		return record, false
	}

	caseNumber := ""
	if cols.caseNumber >= 0 && cols.caseNumber < len(row) {
		caseNumber = strings.TrimSpace(row[cols.caseNumber])
	}

	record = domain.ApprovalRecord{
		Technician:      technician,
		ApprovedAt:      approvedAt,
		DurationSeconds: duration,
		CaseNumber:      caseNumber,
	}
	return record, true
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
