package analytics

import (
	"sort"

	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
)

// Segment partitions one technician's records into blocks/sessions. The input
// need not be sorted; records are stably ordered by approval timestamp first,
// keeping the original order for duplicate timestamps. Each record's duration
// is read as the gap since the previous approval: a gap of SessionGapSeconds
// or more opens a new block, and the first record always opens block 0.
//
// Block ids are assigned monotonically, so the returned slice is both in
// block-id order and chronological order. A single record forms a block of
// size 1 whose average gap equals its own duration.
func Segment(records []domain.ApprovalRecord) []domain.Block {
	if len(records) == 0 {
		return []domain.Block{}
	}

	ordered := make([]domain.ApprovalRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ApprovedAt.Before(ordered[j].ApprovedAt)
	})

	blocks := []domain.Block{{ID: 0}}
	var gapSum float64

	for i, r := range ordered {
		if i > 0 && r.DurationSeconds >= domain.SessionGapSeconds {
			last := len(blocks) - 1
			blocks[last].AverageGapSeconds = gapSum / float64(blocks[last].CaseCount)
			blocks = append(blocks, domain.Block{ID: blocks[last].ID + 1})
			gapSum = 0
		}
		blocks[len(blocks)-1].CaseCount++
		gapSum += r.DurationSeconds
	}

	last := len(blocks) - 1
	blocks[last].AverageGapSeconds = gapSum / float64(blocks[last].CaseCount)

	return blocks
}
