package driven

import (
	"context"
	"time"

	"github.com/paritel/osm-search/internal/core/domain"
)

// SnapshotInfo describes one stored snapshot of a remote table.
type SnapshotInfo struct {
	// ID is the snapshot run identifier.
	ID string

	// Type is the result type the snapshot covers.
	Type domain.ResultType

	// Records is the number of rows stored.
	Records int

	// TakenAt is when the snapshot was written.
	TakenAt time.Time
}

// SnapshotStore persists raw rows pulled from the remote backend so
// searches can run offline. Each Save replaces the previous snapshot
// for that type.
type SnapshotStore interface {
	// Save stores records as the current snapshot for t and returns
	// run metadata.
	Save(ctx context.Context, t domain.ResultType, records []domain.RawRecord) (SnapshotInfo, error)

	// Info returns metadata for the current snapshot of t.
	// Returns domain.ErrSnapshotEmpty if none exists.
	Info(ctx context.Context, t domain.ResultType) (SnapshotInfo, error)

	// Close releases resources.
	Close() error
}
