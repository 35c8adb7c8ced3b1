package analytics

import "github.com/clearcheck/approval-analytics-backend/internal/core/domain"

// Derive computes the per-record flags for a single approval. It is a pure
// function of the record and the threshold; callers may apply it to records
// in any order. fastThreshold must be >= domain.MinFastThreshold, which the
// service layer validates before the pipeline runs.
func Derive(r domain.ApprovalRecord, fastThreshold float64) domain.DerivedFields {
	return domain.DerivedFields{
		IsFast:          r.DurationSeconds < fastThreshold,
		IsSameMinute:    r.DurationSeconds < domain.SameMinuteSeconds,
		IsSameSecond:    r.DurationSeconds == 0,
		DurationMinutes: r.DurationSeconds / 60,
	}
}
