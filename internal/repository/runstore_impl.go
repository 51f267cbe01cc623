package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	apperrors "github.com/Taichi-iskw/yt-metrics/internal/errors"
	"github.com/Taichi-iskw/yt-metrics/internal/model"
)

// Pool interface for abstracting pgx connection pool
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// videoColumns is the shared column list of the snapshot and history tables
var videoColumns = []string{
	"id", "title", "published_at",
	"view_count", "like_count", "comment_count",
	"duration_seconds", "thumbnail_url", "collected_at",
}

// runStore implements RunStore using PostgreSQL
type runStore struct {
	pool   Pool
	logger *zap.Logger
}

// NewRunStore creates a new instance of RunStore
func NewRunStore(pool Pool, logger *zap.Logger) RunStore {
	return &runStore{
		pool:   pool,
		logger: logger,
	}
}

// SaveRun validates the record set and writes snapshot, history and
// run log in one transaction
func (s *runStore) SaveRun(ctx context.Context, videos []*model.Video, entry *model.RunLogEntry) (int, error) {
	clean, err := s.validate(videos)
	if err != nil {
		return 0, err
	}

	rows := make([][]any, len(clean))
	var totalViews, totalLikes, totalComments int64
	for i, v := range clean {
		rows[i] = []any{
			v.ID, v.Title, v.PublishedAt,
			v.ViewCount, v.LikeCount, v.CommentCount,
			v.DurationSeconds, v.ThumbnailURL, v.CollectedAt,
		}
		totalViews += v.ViewCount
		totalLikes += v.LikeCount
		totalComments += v.CommentCount
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, handlePostgreSQLError(err, "failed to begin run transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE videos_snapshot"); err != nil {
		return 0, handlePostgreSQLError(err, "failed to clear snapshot")
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"videos_snapshot"}, videoColumns, pgx.CopyFromRows(rows)); err != nil {
		return 0, handlePostgreSQLError(err, "failed to write snapshot")
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"videos_history"}, videoColumns, pgx.CopyFromRows(rows)); err != nil {
		return 0, handlePostgreSQLError(err, "failed to append history")
	}

	sql := `INSERT INTO collection_runs
		(executed_at, video_count, api_calls, quota_used, quota_percent, elapsed_seconds, total_views, total_likes, total_comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.Exec(ctx, sql,
		entry.ExecutedAt, len(clean), entry.APICalls,
		entry.QuotaUsed, entry.QuotaPercent, entry.ElapsedSecs,
		totalViews, totalLikes, totalComments)
	if err != nil {
		return 0, handlePostgreSQLError(err, "failed to append run log")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, handlePostgreSQLError(err, "failed to commit run")
	}

	return len(clean), nil
}

// validate is the pre-write gate: a record with no ID or no collection
// time fails the whole save, duplicate IDs collapse keep-first with a
// warning, and negative counters are backfilled to 0 on a copy.
func (s *runStore) validate(videos []*model.Video) ([]*model.Video, error) {
	clean := make([]*model.Video, 0, len(videos))
	seen := make(map[string]struct{}, len(videos))

	for i, v := range videos {
		if v.ID == "" {
			return nil, apperrors.New(apperrors.CodeSchemaInvalid, fmt.Sprintf("record %d has an empty video ID", i))
		}
		if v.CollectedAt.IsZero() {
			return nil, apperrors.New(apperrors.CodeSchemaInvalid, fmt.Sprintf("record %s has no collection time", v.ID))
		}
		if _, dup := seen[v.ID]; dup {
			s.logger.Warn("dropping duplicate video ID before write", zap.String("video_id", v.ID))
			continue
		}
		seen[v.ID] = struct{}{}

		if v.ViewCount < 0 || v.LikeCount < 0 || v.CommentCount < 0 || v.DurationSeconds < 0 {
			c := *v
			if c.ViewCount < 0 {
				c.ViewCount = 0
			}
			if c.LikeCount < 0 {
				c.LikeCount = 0
			}
			if c.CommentCount < 0 {
				c.CommentCount = 0
			}
			if c.DurationSeconds < 0 {
				c.DurationSeconds = 0
			}
			clean = append(clean, &c)
			continue
		}

		clean = append(clean, v)
	}

	return clean, nil
}
