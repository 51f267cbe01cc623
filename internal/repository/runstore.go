package repository

import (
	"context"

	"github.com/Taichi-iskw/yt-metrics/internal/model"
)

// RunStore persists the results of one collection run
type RunStore interface {
	// SaveRun validates the record set and writes it atomically:
	// snapshot replace, history append and run-log append happen in
	// one transaction, so a failed run leaves prior state untouched.
	// The run log's record count and aggregate sums are derived from
	// the rows actually written. Returns the written row count.
	SaveRun(ctx context.Context, videos []*model.Video, entry *model.RunLogEntry) (int, error)
}
