package domain

import "time"

const (
	// SameMinuteSeconds is the duration below which an approval counts as "same minute".
	SameMinuteSeconds = 60.0

	// SessionGapSeconds is the inter-approval gap at which a new block/session opens.
	// A gap of exactly 600 seconds (10 minutes) already starts a new block.
	SessionGapSeconds = 600.0

	// MonthlyFastSeconds is the fixed threshold used by the monthly trend and the
	// policy-change comparison.
	MonthlyFastSeconds = 10.0

	// MinFastThreshold is the smallest configurable fast-approval threshold.
	MinFastThreshold = 1.0

	// WorstCaseLimit caps the high-risk table at the 50 fastest approvals.
	WorstCaseLimit = 50
)

// SweepThresholds is the fixed threshold list for the fast-rate sweep, in seconds.
var SweepThresholds = []float64{2, 5, 10, 30, 60}

// ApprovalRecord is one technician approval event. Records are immutable once
// loaded; every record entering the core has DurationSeconds >= 0 (the provider
// drops malformed rows).
type ApprovalRecord struct {
	Technician      string
	ApprovedAt      time.Time
	DurationSeconds float64
	CaseNumber      string
}

// DerivedFields are the per-record flags computed from a fast-approval threshold.
// They are pure functions of a single record and carry no ordering dependency.
type DerivedFields struct {
	IsFast          bool
	IsSameMinute    bool
	IsSameSecond    bool
	DurationMinutes float64
}

// Block is a maximal run of time-ordered approvals for one technician where each
// record's duration, read as the gap since the previous approval, stays below
// SessionGapSeconds. Blocks are derived per request and never persisted.
type Block struct {
	ID                int
	CaseCount         int
	AverageGapSeconds float64
}
