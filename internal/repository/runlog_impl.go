package repository

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/Taichi-iskw/yt-metrics/internal/errors"
	"github.com/Taichi-iskw/yt-metrics/internal/model"
)

// runLogRepository implements RunLogRepository using PostgreSQL
type runLogRepository struct {
	pool   Pool
	logger *zap.Logger
}

// NewRunLogRepository creates a new instance of RunLogRepository
func NewRunLogRepository(pool Pool, logger *zap.Logger) RunLogRepository {
	return &runLogRepository{
		pool:   pool,
		logger: logger,
	}
}

// ListRecent retrieves the latest run-log entries, newest first
func (r *runLogRepository) ListRecent(ctx context.Context, limit int) ([]*model.RunLogEntry, error) {
	sql := `SELECT id, executed_at, video_count, api_calls, quota_used, quota_percent,
		elapsed_seconds, total_views, total_likes, total_comments
		FROM collection_runs ORDER BY executed_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list run log")
	}
	defer rows.Close()

	entries := []*model.RunLogEntry{}
	for rows.Next() {
		var entry model.RunLogEntry
		err := rows.Scan(&entry.ID, &entry.ExecutedAt, &entry.VideoCount,
			&entry.APICalls, &entry.QuotaUsed, &entry.QuotaPercent,
			&entry.ElapsedSecs, &entry.TotalViews, &entry.TotalLikes, &entry.TotalComments)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan run log row")
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgreSQLError(err, "failed to read run log rows")
	}

	return entries, nil
}
