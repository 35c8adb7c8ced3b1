package domain

import (
	"sort"
	"time"
)

// Dataset is the read-only in-memory approval table. It is built once from a
// record provider and never mutated afterwards; a reload constructs a fresh
// Dataset and swaps it in wholesale. Records are held in chronological order
// per technician with original load order as the tie-break, so downstream
// segmentation sees a stable ordering for duplicate timestamps.
type Dataset struct {
	byTechnician map[string][]ApprovalRecord
	total        int
	dropped      int
	loadedAt     time.Time
	minDate      time.Time
	maxDate      time.Time
}

// NewDataset builds a dataset from provider records. The provider has already
// dropped malformed rows; dropped carries their count for logging and the
// dataset info endpoint.
func NewDataset(records []ApprovalRecord, dropped int) *Dataset {
	ds := &Dataset{
		byTechnician: make(map[string][]ApprovalRecord),
		total:        len(records),
		dropped:      dropped,
		loadedAt:     time.Now().UTC(),
	}

	for i, r := range records {
		ds.byTechnician[r.Technician] = append(ds.byTechnician[r.Technician], r)
		if i == 0 || r.ApprovedAt.Before(ds.minDate) {
			ds.minDate = r.ApprovedAt
		}
		if i == 0 || r.ApprovedAt.After(ds.maxDate) {
			ds.maxDate = r.ApprovedAt
		}
	}

	for tech := range ds.byTechnician {
		recs := ds.byTechnician[tech]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].ApprovedAt.Before(recs[j].ApprovedAt)
		})
	}

	return ds
}

// RecordsFor returns the technician's full history in chronological order.
// The returned slice is shared and must not be mutated by callers.
func (ds *Dataset) RecordsFor(technician string) []ApprovalRecord {
	return ds.byTechnician[technician]
}

// Len returns the total number of records in the dataset.
func (ds *Dataset) Len() int {
	return ds.total
}

// Dropped returns the number of malformed source rows discarded at load time.
func (ds *Dataset) Dropped() int {
	return ds.dropped
}

// LoadedAt returns when this dataset was built.
func (ds *Dataset) LoadedAt() time.Time {
	return ds.loadedAt
}

// Bounds returns the earliest and latest approval timestamps. The second
// return value is false for an empty dataset.
func (ds *Dataset) Bounds() (min, max time.Time, ok bool) {
	if ds.total == 0 {
		return time.Time{}, time.Time{}, false
	}
	return ds.minDate, ds.maxDate, true
}

// CountFor returns the number of records for one technician.
func (ds *Dataset) CountFor(technician string) int {
	return len(ds.byTechnician[technician])
}
