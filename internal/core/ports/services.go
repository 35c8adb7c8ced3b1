package ports

import (
	"context"
	"time"

	"github.com/clearcheck/approval-analytics-backend/internal/core/analytics"
	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
)

// DashboardQuery is the sidebar filter set every dashboard view is computed
// from. From and To are inclusive dates; when nil they default to the
// dataset's bounds. FastThreshold is in seconds and must be >= 1.
type DashboardQuery struct {
	Technician    string
	From          *time.Time
	To            *time.Time
	FastThreshold float64
}

// TechnicianSummary describes one known technician for the sidebar:
// display profile plus the extent of their history.
type TechnicianSummary struct {
	Profile     domain.TechnicianProfile
	RecordCount int
	FirstDate   *time.Time
	LastDate    *time.Time
}

// PolicyChangeReport is the before/after comparison for a technician with a
// configured policy cutoff. Monthly always covers the technician's full
// history, independent of the sidebar filters.
type PolicyChangeReport struct {
	Technician string
	Cutoff     time.Time
	Monthly    []analytics.MonthlyPoint
	Before     analytics.PeriodStats
	After      analytics.PeriodStats
}

// DatasetInfo describes the currently loaded dataset.
type DatasetInfo struct {
	Records  int
	Dropped  int
	LoadedAt time.Time
	MinDate  *time.Time
	MaxDate  *time.Time
}

// DashboardService is the core-facing contract exposed to the presentation
// layer: every method returns a stable, fully computed, display-ready
// structure. Empty filtered subsets degrade to empty slices or nil-valued
// statistics, never to errors.
type DashboardService interface {
	Technicians(ctx context.Context) ([]TechnicianSummary, error)
	Summary(ctx context.Context, q DashboardQuery) (*analytics.Summary, error)
	Durations(ctx context.Context, q DashboardQuery) ([]float64, error)
	FastRates(ctx context.Context, q DashboardQuery) ([]analytics.FastRatePoint, error)
	Blocks(ctx context.Context, q DashboardQuery) ([]domain.Block, error)
	Weekdays(ctx context.Context, q DashboardQuery) ([]analytics.WeekdayCount, error)
	WorstCases(ctx context.Context, q DashboardQuery) ([]domain.ApprovalRecord, error)
	PolicyChange(ctx context.Context, technician string) (*PolicyChangeReport, error)
	DatasetInfo(ctx context.Context) (*DatasetInfo, error)
	Reload(ctx context.Context) (*DatasetInfo, error)
}
