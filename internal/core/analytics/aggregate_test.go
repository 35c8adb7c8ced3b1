package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ApprovalRecord{
		rec("Arnold", now, 0),
		rec("Arnold", now, 5),
		rec("Arnold", now, 30),
		rec("Arnold", now, 120),
	}

	s := Summarize(records, 10)

	assert.Equal(t, 4, s.Approvals)
	assert.Equal(t, 10.0, s.FastThresholdS)
	require.NotNil(t, s.MedianSeconds)
	assert.InDelta(t, 17.5, *s.MedianSeconds, 1e-9)
	require.NotNil(t, s.MeanSeconds)
	assert.InDelta(t, 38.75, *s.MeanSeconds, 1e-9)
	require.NotNil(t, s.PctFast)
	assert.InDelta(t, 50.0, *s.PctFast, 1e-9)
	require.NotNil(t, s.PctSameMinute)
	assert.InDelta(t, 75.0, *s.PctSameMinute, 1e-9)
	require.NotNil(t, s.PctSameSecond)
	assert.InDelta(t, 25.0, *s.PctSameSecond, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 10)

	assert.Equal(t, 0, s.Approvals)
	assert.Nil(t, s.MedianSeconds)
	assert.Nil(t, s.MeanSeconds)
	assert.Nil(t, s.PctFast)
	assert.Nil(t, s.PctSameMinute)
	assert.Nil(t, s.PctSameSecond)
}

func TestFastRateSweep(t *testing.T) {
	now := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ApprovalRecord{
		rec("Arnold", now, 1),
		rec("Arnold", now, 3),
		rec("Arnold", now, 8),
		rec("Arnold", now, 15),
		rec("Arnold", now, 50),
	}

	points := FastRateSweep(records, domain.SweepThresholds)

	require.Len(t, points, 5)
	want := []float64{20, 40, 60, 80, 100}
	for i, p := range points {
		assert.Equal(t, domain.SweepThresholds[i], p.ThresholdSeconds)
		require.NotNil(t, p.Rate)
		assert.InDelta(t, want[i], *p.Rate, 1e-9)
	}
}

func TestFastRateSweep_Monotonic(t *testing.T) {
	now := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ApprovalRecord{
		rec("Arnold", now, 0),
		rec("Arnold", now, 4),
		rec("Arnold", now, 4),
		rec("Arnold", now, 29),
		rec("Arnold", now, 61),
	}

	points := FastRateSweep(records, domain.SweepThresholds)

	for i := 1; i < len(points); i++ {
		require.NotNil(t, points[i].Rate)
		assert.GreaterOrEqual(t, *points[i].Rate, *points[i-1].Rate)
	}
}

func TestFastRateSweep_Empty(t *testing.T) {
	points := FastRateSweep(nil, domain.SweepThresholds)

	require.Len(t, points, 5)
	for _, p := range points {
		assert.Nil(t, p.Rate)
	}
}

func TestWeekdayHistogram(t *testing.T) {
	// 2021-03-01 is a Monday.
	monday := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ApprovalRecord{
		rec("Arnold", monday, 1),
		rec("Arnold", monday.Add(24*time.Hour), 1),      // Tuesday
		rec("Arnold", monday.Add(7*24*time.Hour), 1),    // next Monday
		rec("Arnold", monday.Add(6*24*time.Hour), 1),    // Sunday
	}

	counts := WeekdayHistogram(records)

	require.Len(t, counts, 7)
	assert.Equal(t, "Monday", counts[0].Weekday)
	assert.Equal(t, 2, counts[0].Count)
	assert.Equal(t, "Tuesday", counts[1].Weekday)
	assert.Equal(t, 1, counts[1].Count)
	assert.Equal(t, "Wednesday", counts[2].Weekday)
	assert.Equal(t, 0, counts[2].Count)
	assert.Equal(t, "Sunday", counts[6].Weekday)
	assert.Equal(t, 1, counts[6].Count)
}

func TestWeekdayHistogram_EmptyStillSevenDays(t *testing.T) {
	counts := WeekdayHistogram(nil)

	require.Len(t, counts, 7)
	for _, c := range counts {
		assert.Equal(t, 0, c.Count)
	}
}

func TestMonthlyFastRate(t *testing.T) {
	records := []domain.ApprovalRecord{
		rec("Arnold", time.Date(2021, 3, 5, 9, 0, 0, 0, time.UTC), 2),
		rec("Arnold", time.Date(2021, 3, 20, 9, 0, 0, 0, time.UTC), 50),
		rec("Arnold", time.Date(2021, 5, 1, 9, 0, 0, 0, time.UTC), 1),
	}

	points := MonthlyFastRate(records, domain.MonthlyFastSeconds)

	// April has no records and produces no bucket.
	require.Len(t, points, 2)
	assert.Equal(t, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), points[0].Month)
	assert.Equal(t, 2, points[0].Count)
	assert.InDelta(t, 50.0, points[0].PctFast, 1e-9)
	assert.Equal(t, time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC), points[1].Month)
	assert.Equal(t, 1, points[1].Count)
	assert.InDelta(t, 100.0, points[1].PctFast, 1e-9)
}

func TestSplitAtCutoff(t *testing.T) {
	cutoff := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.ApprovalRecord{
		rec("Arnold", cutoff.Add(-time.Second), 1),
		rec("Arnold", cutoff, 2),
		rec("Arnold", cutoff.Add(time.Hour), 3),
	}

	before, after := SplitAtCutoff(records, cutoff)

	// A record exactly at the cutoff counts as after.
	require.Len(t, before, 1)
	require.Len(t, after, 2)
	assert.Equal(t, len(records), len(before)+len(after))
	assert.Equal(t, 2.0, after[0].DurationSeconds)
}

func TestSummarizePeriod(t *testing.T) {
	now := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ApprovalRecord{
		rec("Arnold", now, 5),
		rec("Arnold", now, 15),
	}

	s := SummarizePeriod(records, domain.MonthlyFastSeconds)

	assert.Equal(t, 2, s.Count)
	require.NotNil(t, s.MeanSeconds)
	assert.InDelta(t, 10.0, *s.MeanSeconds, 1e-9)
	require.NotNil(t, s.MedianSeconds)
	assert.InDelta(t, 10.0, *s.MedianSeconds, 1e-9)
	require.NotNil(t, s.PctFast)
	assert.InDelta(t, 50.0, *s.PctFast, 1e-9)
}

func TestSummarizePeriod_Empty(t *testing.T) {
	s := SummarizePeriod(nil, domain.MonthlyFastSeconds)

	assert.Equal(t, 0, s.Count)
	assert.Nil(t, s.MeanSeconds)
	assert.Nil(t, s.MedianSeconds)
	assert.Nil(t, s.PctFast)
}

func TestWorstCases(t *testing.T) {
	now := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ApprovalRecord{
		rec("Arnold", now, 9),
		rec("Arnold", now, 1),
		rec("Arnold", now, 4),
	}

	worst := WorstCases(records, 2)

	require.Len(t, worst, 2)
	assert.Equal(t, 1.0, worst[0].DurationSeconds)
	assert.Equal(t, 4.0, worst[1].DurationSeconds)
}

func TestWorstCases_StableTies(t *testing.T) {
	now := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ApprovalRecord{
		{Technician: "Arnold", ApprovedAt: now, DurationSeconds: 2, CaseNumber: "first"},
		{Technician: "Arnold", ApprovedAt: now, DurationSeconds: 2, CaseNumber: "second"},
		{Technician: "Arnold", ApprovedAt: now, DurationSeconds: 1, CaseNumber: "third"},
	}

	worst := WorstCases(records, 3)

	require.Len(t, worst, 3)
	assert.Equal(t, "third", worst[0].CaseNumber)
	assert.Equal(t, "first", worst[1].CaseNumber)
	assert.Equal(t, "second", worst[2].CaseNumber)
}

func TestWorstCases_FewerThanLimit(t *testing.T) {
	now := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ApprovalRecord{rec("Arnold", now, 3)}

	worst := WorstCases(records, domain.WorstCaseLimit)
	assert.Len(t, worst, 1)
}

func TestMedian(t *testing.T) {
	assert.Nil(t, median(nil))

	odd := median([]float64{3, 1, 2})
	require.NotNil(t, odd)
	assert.Equal(t, 2.0, *odd)

	// Even counts average the two middle values.
	even := median([]float64{4, 1, 3, 2})
	require.NotNil(t, even)
	assert.Equal(t, 2.5, *even)
}

func TestDurations(t *testing.T) {
	now := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.ApprovalRecord{
		rec("Arnold", now, 3),
		rec("Arnold", now, 7),
	}

	assert.Equal(t, []float64{3, 7}, Durations(records))
}
