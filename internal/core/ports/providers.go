package ports

import (
	"context"

	"github.com/clearcheck/approval-analytics-backend/internal/core/domain"
)

// LoadResult carries the rows a provider accepted plus the count of malformed
// source rows it silently dropped (unparseable timestamp, missing or negative
// duration). Dropped rows are never surfaced individually.
type LoadResult struct {
	Records []domain.ApprovalRecord
	Dropped int
}

// RecordProvider is the opaque data source for approval events. Implementations
// must guarantee every returned record has DurationSeconds >= 0 and a valid
// timestamp; the core relies on that invariant.
type RecordProvider interface {
	Load(ctx context.Context) (*LoadResult, error)
	Ping(ctx context.Context) error
}

// EventBroadcaster publishes real-time events to connected dashboard clients.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
