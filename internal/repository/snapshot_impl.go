package repository

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/Taichi-iskw/yt-metrics/internal/errors"
	"github.com/Taichi-iskw/yt-metrics/internal/model"
)

// snapshotRepository implements SnapshotRepository using PostgreSQL
type snapshotRepository struct {
	pool   Pool
	logger *zap.Logger
}

// NewSnapshotRepository creates a new instance of SnapshotRepository
func NewSnapshotRepository(pool Pool, logger *zap.Logger) SnapshotRepository {
	return &snapshotRepository{
		pool:   pool,
		logger: logger,
	}
}

// Count returns the number of records in the snapshot
func (r *snapshotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM videos_snapshot").Scan(&count)
	if err != nil {
		return 0, handlePostgreSQLError(err, "failed to count snapshot rows")
	}
	return count, nil
}

// ListAll retrieves the whole snapshot, newest uploads first
func (r *snapshotRepository) ListAll(ctx context.Context) ([]*model.Video, error) {
	sql := `SELECT id, title, published_at, view_count, like_count, comment_count,
		duration_seconds, thumbnail_url, collected_at
		FROM videos_snapshot ORDER BY published_at DESC`
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list snapshot")
	}
	defer rows.Close()

	videos := []*model.Video{}
	for rows.Next() {
		var video model.Video
		err := rows.Scan(&video.ID, &video.Title, &video.PublishedAt,
			&video.ViewCount, &video.LikeCount, &video.CommentCount,
			&video.DurationSeconds, &video.ThumbnailURL, &video.CollectedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan snapshot row")
		}
		videos = append(videos, &video)
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgreSQLError(err, "failed to read snapshot rows")
	}

	return videos, nil
}
