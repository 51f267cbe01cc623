package repository

import (
	"context"

	"github.com/Taichi-iskw/yt-metrics/internal/model"
)

// RunLogRepository defines read operations on the append-only run log
type RunLogRepository interface {
	// ListRecent retrieves the latest run-log entries, newest first
	ListRecent(ctx context.Context, limit int) ([]*model.RunLogEntry, error)
}
