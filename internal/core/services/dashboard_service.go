package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/clearcheck/approval-analytics-backend/internal/core/analytics"
	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
	apperrors "github.com/clearcheck/approval-analytics-backend/internal/core/errors"
	"github.com/clearcheck/approval-analytics-backend/internal/core/ports"
)

// DashboardService runs the filter -> derive -> segment/aggregate pipeline on
// top of the immutable in-memory dataset. The dataset is held behind an atomic
// pointer: readers always see a complete table, and a reload swaps in a fresh
// one wholesale. The pipeline itself is synchronous and idempotent per request.
type DashboardService struct {
	provider    ports.RecordProvider
	broadcaster ports.EventBroadcaster
	technicians []domain.TechnicianProfile
	logger      *slog.Logger

	dataset atomic.Pointer[domain.Dataset]
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates the service. Call Reload once before serving to
// populate the dataset.
func NewDashboardService(
	provider ports.RecordProvider,
	broadcaster ports.EventBroadcaster,
	technicians []domain.TechnicianProfile,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		provider:    provider,
		broadcaster: broadcaster,
		technicians: technicians,
		logger:      logger.With("service", "dashboard"),
	}
}

// Technicians lists the known technician profiles with the extent of their
// loaded history.
func (s *DashboardService) Technicians(ctx context.Context) ([]ports.TechnicianSummary, error) {
	ds, err := s.currentDataset()
	if err != nil {
		return nil, err
	}

	out := make([]ports.TechnicianSummary, 0, len(s.technicians))
	for _, p := range s.technicians {
		summary := ports.TechnicianSummary{
			Profile:     p,
			RecordCount: ds.CountFor(p.Name),
		}
		if recs := ds.RecordsFor(p.Name); len(recs) > 0 {
			first := recs[0].ApprovedAt
			last := recs[len(recs)-1].ApprovedAt
			summary.FirstDate = &first
			summary.LastDate = &last
		}
		out = append(out, summary)
	}
	return out, nil
}

// Summary computes the KPI block for the filtered subset.
func (s *DashboardService) Summary(ctx context.Context, q ports.DashboardQuery) (*analytics.Summary, error) {
	subset, resolved, err := s.filteredSubset(q)
	if err != nil {
		return nil, err
	}
	summary := analytics.Summarize(subset, resolved.FastThreshold)
	return &summary, nil
}

// Durations returns the filtered subset's duration column for the histogram.
func (s *DashboardService) Durations(ctx context.Context, q ports.DashboardQuery) ([]float64, error) {
	subset, _, err := s.filteredSubset(q)
	if err != nil {
		return nil, err
	}
	return analytics.Durations(subset), nil
}

// FastRates computes the fixed-threshold sweep for the filtered subset.
func (s *DashboardService) FastRates(ctx context.Context, q ports.DashboardQuery) ([]analytics.FastRatePoint, error) {
	subset, _, err := s.filteredSubset(q)
	if err != nil {
		return nil, err
	}
	return analytics.FastRateSweep(subset, domain.SweepThresholds), nil
}

// Blocks segments the filtered subset into review sessions.
func (s *DashboardService) Blocks(ctx context.Context, q ports.DashboardQuery) ([]domain.Block, error) {
	subset, _, err := s.filteredSubset(q)
	if err != nil {
		return nil, err
	}
	return analytics.Segment(subset), nil
}

// Weekdays computes the weekday histogram for the filtered subset.
func (s *DashboardService) Weekdays(ctx context.Context, q ports.DashboardQuery) ([]analytics.WeekdayCount, error) {
	subset, _, err := s.filteredSubset(q)
	if err != nil {
		return nil, err
	}
	return analytics.WeekdayHistogram(subset), nil
}

// WorstCases returns the fastest approvals in the filtered subset.
func (s *DashboardService) WorstCases(ctx context.Context, q ports.DashboardQuery) ([]domain.ApprovalRecord, error) {
	subset, _, err := s.filteredSubset(q)
	if err != nil {
		return nil, err
	}
	return analytics.WorstCases(subset, domain.WorstCaseLimit), nil
}

// PolicyChange computes the monthly trend and before/after comparison for a
// technician with a configured cutoff, always over their full history.
func (s *DashboardService) PolicyChange(ctx context.Context, technician string) (*ports.PolicyChangeReport, error) {
	ds, err := s.currentDataset()
	if err != nil {
		return nil, err
	}

	profile, ok := domain.FindTechnician(s.technicians, technician)
	if !ok {
		return nil, apperrors.ErrTechnicianNotFound
	}
	if !profile.HasPolicyCutoff() {
		return nil, apperrors.ErrNoPolicyCutoff
	}

	history := ds.RecordsFor(technician)
	before, after := analytics.SplitAtCutoff(history, *profile.PolicyCutoff)

	return &ports.PolicyChangeReport{
		Technician: technician,
		Cutoff:     *profile.PolicyCutoff,
		Monthly:    analytics.MonthlyFastRate(history, domain.MonthlyFastSeconds),
		Before:     analytics.SummarizePeriod(before, domain.MonthlyFastSeconds),
		After:      analytics.SummarizePeriod(after, domain.MonthlyFastSeconds),
	}, nil
}

// DatasetInfo describes the currently loaded dataset.
func (s *DashboardService) DatasetInfo(ctx context.Context) (*ports.DatasetInfo, error) {
	ds, err := s.currentDataset()
	if err != nil {
		return nil, err
	}
	return datasetInfo(ds), nil
}

// Reload rebuilds the dataset from the provider and swaps it in atomically.
// On failure the previous dataset stays in place.
func (s *DashboardService) Reload(ctx context.Context) (*ports.DatasetInfo, error) {
	result, err := s.provider.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatasetReload, err)
	}

	ds := domain.NewDataset(result.Records, result.Dropped)
	s.dataset.Store(ds)

	info := datasetInfo(ds)
	s.logger.Info("dataset loaded",
		"records", info.Records,
		"dropped_rows", info.Dropped,
	)

	if s.broadcaster != nil {
		_ = s.broadcaster.Broadcast(domain.Event{
			Type:    domain.EventDatasetReloaded,
			Payload: info,
		})
	}

	return info, nil
}

// filteredSubset validates the query, applies defaults from the dataset
// bounds, and returns the technician's records inside the date window.
func (s *DashboardService) filteredSubset(q ports.DashboardQuery) ([]domain.ApprovalRecord, ports.DashboardQuery, error) {
	ds, err := s.currentDataset()
	if err != nil {
		return nil, q, err
	}

	if q.Technician == "" {
		return nil, q, apperrors.ErrTechnicianRequired
	}
	if _, ok := domain.FindTechnician(s.technicians, q.Technician); !ok {
		return nil, q, apperrors.ErrTechnicianNotFound
	}
	if q.FastThreshold == 0 {
		q.FastThreshold = domain.MonthlyFastSeconds
	}
	if q.FastThreshold < domain.MinFastThreshold {
		return nil, q, apperrors.ErrInvalidFastThreshold
	}

	min, max, ok := ds.Bounds()
	if !ok {
		// Empty dataset: every filter yields an empty, valid subset.
		return []domain.ApprovalRecord{}, q, nil
	}
	if q.From == nil {
		q.From = &min
	}
	if q.To == nil {
		q.To = &max
	}
	if q.From.After(*q.To) {
		return nil, q, apperrors.ErrInvalidDateRange
	}

	subset := analytics.Filter(ds.RecordsFor(q.Technician), q.Technician, *q.From, *q.To)
	return subset, q, nil
}

func (s *DashboardService) currentDataset() (*domain.Dataset, error) {
	ds := s.dataset.Load()
	if ds == nil {
		return nil, apperrors.ErrDatasetNotLoaded
	}
	return ds, nil
}

func datasetInfo(ds *domain.Dataset) *ports.DatasetInfo {
	info := &ports.DatasetInfo{
		Records:  ds.Len(),
		Dropped:  ds.Dropped(),
		LoadedAt: ds.LoadedAt(),
	}
	if min, max, ok := ds.Bounds(); ok {
		info.MinDate = &min
		info.MaxDate = &max
	}
	return info
}
