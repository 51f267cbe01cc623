package repository

import (
	"context"

	"github.com/Taichi-iskw/yt-metrics/internal/model"
)

// SnapshotRepository defines read operations on the latest-run snapshot
type SnapshotRepository interface {
	// Count returns the number of records in the snapshot
	Count(ctx context.Context) (int64, error)

	// ListAll retrieves the whole snapshot, newest uploads first
	ListAll(ctx context.Context) ([]*model.Video, error)
}
