package analytics

import (
	"sort"
	"time"

	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
)

// weekdayOrder fixes the weekday histogram to Monday-first, every day present.
var weekdayOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Summary holds the dashboard's headline KPIs for a filtered subset.
// Ratio fields are nil when the subset is empty; they are never NaN.
type Summary struct {
	Approvals      int
	MedianSeconds  *float64
	PctFast        *float64
	PctSameMinute  *float64
	PctSameSecond  *float64
	MeanSeconds    *float64
	FastThresholdS float64
}

// FastRatePoint is one row of the threshold sweep: the percentage of records
// with a duration strictly below ThresholdSeconds. Rate is nil for an empty
// subset rather than a division by zero.
type FastRatePoint struct {
	ThresholdSeconds float64
	Rate             *float64
}

// WeekdayCount is one bar of the weekday histogram.
type WeekdayCount struct {
	Weekday string
	Count   int
}

// MonthlyPoint is one bucket of the monthly fast-rate trend.
type MonthlyPoint struct {
	Month   time.Time
	Count   int
	PctFast float64
}

// PeriodStats summarizes one side of the policy-change comparison. Mean,
// median and fast rate are nil when the partition is empty.
type PeriodStats struct {
	Count         int
	MeanSeconds   *float64
	MedianSeconds *float64
	PctFast       *float64
}

// Summarize computes the KPI block for a filtered subset. All percentages are
// 0..100; every ratio degrades to nil on an empty input.
func Summarize(records []domain.ApprovalRecord, fastThreshold float64) Summary {
	s := Summary{Approvals: len(records), FastThresholdS: fastThreshold}
	if len(records) == 0 {
		return s
	}

	durations := Durations(records)
	var fast, sameMinute, sameSecond int
	for _, r := range records {
		d := Derive(r, fastThreshold)
		if d.IsFast {
			fast++
		}
		if d.IsSameMinute {
			sameMinute++
		}
		if d.IsSameSecond {
			sameSecond++
		}
	}

	n := float64(len(records))
	s.MedianSeconds = median(durations)
	s.MeanSeconds = mean(durations)
	s.PctFast = ptr(float64(fast) / n * 100)
	s.PctSameMinute = ptr(float64(sameMinute) / n * 100)
	s.PctSameSecond = ptr(float64(sameSecond) / n * 100)
	return s
}

// FastRateSweep returns, for each threshold, the percentage of records whose
// duration is strictly below it. The rate is monotonically non-decreasing in
// the threshold. Rates are nil across the board for an empty subset.
func FastRateSweep(records []domain.ApprovalRecord, thresholds []float64) []FastRatePoint {
	points := make([]FastRatePoint, 0, len(thresholds))
	for _, t := range thresholds {
		p := FastRatePoint{ThresholdSeconds: t}
		if len(records) > 0 {
			var below int
			for _, r := range records {
				if r.DurationSeconds < t {
					below++
				}
			}
			p.Rate = ptr(float64(below) / float64(len(records)) * 100)
		}
		points = append(points, p)
	}
	return points
}

// WeekdayHistogram counts records per weekday. The result always has exactly
// 7 entries in Monday..Sunday order; weekdays without records report 0.
func WeekdayHistogram(records []domain.ApprovalRecord) []WeekdayCount {
	counts := make(map[time.Weekday]int, 7)
	for _, r := range records {
		counts[r.ApprovedAt.Weekday()]++
	}

	out := make([]WeekdayCount, 0, 7)
	for _, wd := range weekdayOrder {
		out = append(out, WeekdayCount{Weekday: wd.String(), Count: counts[wd]})
	}
	return out
}

// MonthlyFastRate buckets records by calendar month and computes the fraction
// with a duration below fastSeconds per bucket, sorted chronologically. Only
// months with at least one record appear.
func MonthlyFastRate(records []domain.ApprovalRecord, fastSeconds float64) []MonthlyPoint {
	type bucket struct {
		count int
		fast  int
	}
	buckets := make(map[time.Time]*bucket)

	for _, r := range records {
		m := monthStart(r.ApprovedAt)
		b, ok := buckets[m]
		if !ok {
			b = &bucket{}
			buckets[m] = b
		}
		b.count++
		if r.DurationSeconds < fastSeconds {
			b.fast++
		}
	}

	months := make([]time.Time, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]MonthlyPoint, 0, len(months))
	for _, m := range months {
		b := buckets[m]
		out = append(out, MonthlyPoint{
			Month:   m,
			Count:   b.count,
			PctFast: float64(b.fast) / float64(b.count) * 100,
		})
	}
	return out
}

// SplitAtCutoff partitions records into before (< cutoff) and after (>= cutoff).
func SplitAtCutoff(records []domain.ApprovalRecord, cutoff time.Time) (before, after []domain.ApprovalRecord) {
	before = make([]domain.ApprovalRecord, 0, len(records))
	after = make([]domain.ApprovalRecord, 0, len(records))
	for _, r := range records {
		if r.ApprovedAt.Before(cutoff) {
			before = append(before, r)
		} else {
			after = append(after, r)
		}
	}
	return before, after
}

// SummarizePeriod computes the before/after comparison row for one partition
// using the fixed fast threshold. Empty partitions report nil statistics.
func SummarizePeriod(records []domain.ApprovalRecord, fastSeconds float64) PeriodStats {
	s := PeriodStats{Count: len(records)}
	if len(records) == 0 {
		return s
	}

	durations := Durations(records)
	var fast int
	for _, d := range durations {
		if d < fastSeconds {
			fast++
		}
	}

	s.MeanSeconds = mean(durations)
	s.MedianSeconds = median(durations)
	s.PctFast = ptr(float64(fast) / float64(len(records)) * 100)
	return s
}

// WorstCases returns up to limit records with the smallest durations in
// ascending order, ties broken by original order. The input is not mutated.
func WorstCases(records []domain.ApprovalRecord, limit int) []domain.ApprovalRecord {
	sorted := make([]domain.ApprovalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DurationSeconds < sorted[j].DurationSeconds
	})

	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// Durations extracts the duration column in the records' order, ready for the
// client-side histogram (clipping and binning stay with the presentation layer).
func Durations(records []domain.ApprovalRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.DurationSeconds
	}
	return out
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return ptr(sum / float64(len(values)))
}

// median returns the middle value, averaging the two middle values for an
// even count. Returns nil on empty input; the argument is not reordered.
func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return ptr(sorted[mid])
	}
	return ptr((sorted[mid-1] + sorted[mid]) / 2)
}

func ptr(v float64) *float64 {
	return &v
}
