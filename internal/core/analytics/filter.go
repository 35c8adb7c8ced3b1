package analytics

import (
	"time"

	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
)

// Filter selects the records for one technician whose approval timestamp falls
// within [startOfDay(from), startOfDay(to) + 24h). The half-open upper bound
// guarantees the end date is fully included regardless of time-of-day. An
// empty result is a valid outcome.
func Filter(records []domain.ApprovalRecord, technician string, from, to time.Time) []domain.ApprovalRecord {
	lower := startOfDay(from)
	upper := startOfDay(to).Add(24 * time.Hour)

	out := make([]domain.ApprovalRecord, 0, len(records))
	for _, r := range records {
		if r.Technician != technician {
			continue
		}
		if r.ApprovedAt.Before(lower) || !r.ApprovedAt.Before(upper) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
