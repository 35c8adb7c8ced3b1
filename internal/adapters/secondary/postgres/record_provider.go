package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
	"github.com/clearcheck/approval-analytics-backend/internal/core/ports"
)

// RecordProvider loads approval records from the approval_events table.
type RecordProvider struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ ports.RecordProvider = (*RecordProvider)(nil)

// NewRecordProvider creates a Postgres-backed record provider
func NewRecordProvider(pool *pgxpool.Pool, logger *slog.Logger) *RecordProvider {
	return &RecordProvider{
		pool:   pool,
		logger: logger.With("component", "postgres_provider"),
	}
}

// Load fetches the full event table. Rows with a null or negative duration
// are excluded in SQL and reported as dropped.
func (p *RecordProvider) Load(ctx context.Context) (*ports.LoadResult, error) {
	const query = `
SELECT technician, approved_at, duration_seconds, COALESCE(case_number, '')
FROM approval_events
WHERE duration_seconds IS NOT NULL
  AND duration_seconds >= 0
ORDER BY approved_at
`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &ports.LoadResult{}
	for rows.Next() {
		var r domain.ApprovalRecord
		if err := rows.Scan(&r.Technician, &r.ApprovedAt, &r.DurationSeconds, &r.CaseNumber); err != nil {
			return nil, err
		}
		r.ApprovedAt = r.ApprovedAt.UTC()
		result.Records = append(result.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dropped, err := p.countDropped(ctx)
	if err != nil {
		return nil, err
	}
	result.Dropped = dropped

	p.logger.InfoContext(ctx, "postgres load complete",
		"records", len(result.Records),
		"dropped", result.Dropped,
	)
	return result, nil
}

// countDropped counts the rows the load query excluded.
func (p *RecordProvider) countDropped(ctx context.Context) (int, error) {
	const query = `
SELECT COUNT(*)
FROM approval_events
WHERE duration_seconds IS NULL
   OR duration_seconds < 0
`

	var dropped int
	if err := p.pool.QueryRow(ctx, query).Scan(&dropped); err != nil {
		return 0, err
	}
	return dropped, nil
}

// Ping checks database connectivity.
func (p *RecordProvider) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
