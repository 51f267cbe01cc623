package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Taichi-iskw/yt-metrics/internal/collector"
	"github.com/Taichi-iskw/yt-metrics/internal/config"
	apperrors "github.com/Taichi-iskw/yt-metrics/internal/errors"
	"github.com/Taichi-iskw/yt-metrics/internal/model"
	"github.com/Taichi-iskw/yt-metrics/internal/quota"
	"github.com/Taichi-iskw/yt-metrics/internal/repository"
	"github.com/Taichi-iskw/yt-metrics/internal/retry"
	"github.com/Taichi-iskw/yt-metrics/internal/youtube"
)

// collectionService implements CollectionService
type collectionService struct {
	channels  youtube.ChannelSource
	playlists youtube.PlaylistSource
	videos    youtube.VideoSource
	store     repository.RunStore

	channelID string
	collector config.CollectorConfig
	csvOutput string
	backupDir string

	logger *zap.Logger
	now    func() time.Time
}

// NewCollectionService creates a CollectionService wired to the given
// sources and store. Each Run gets its own quota tracker and retry
// policy; nothing is shared between runs.
func NewCollectionService(
	channels youtube.ChannelSource,
	playlists youtube.PlaylistSource,
	videos youtube.VideoSource,
	store repository.RunStore,
	cfg *config.Config,
	logger *zap.Logger,
) CollectionService {
	return &collectionService{
		channels:  channels,
		playlists: playlists,
		videos:    videos,
		store:     store,
		channelID: cfg.ChannelID,
		collector: cfg.Collector,
		csvOutput: cfg.CSVOutput,
		backupDir: cfg.BackupDir,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one collection cycle
func (s *collectionService) Run(ctx context.Context) (*model.RunReport, error) {
	start := s.now()
	tracker := quota.NewTracker(s.collector.DailyQuota, s.collector.QuotaCosts)
	policy := retry.NewPolicy(s.collector.MaxAttempts, s.collector.BaseDelay())

	s.logger.Info("collection run started",
		zap.String("channel_id", s.channelID),
		zap.Int("daily_quota", s.collector.DailyQuota))

	// COLLECTING_IDS: resolve the channel, then walk its uploads playlist
	channel, err := s.fetchChannel(ctx, policy, tracker)
	if err != nil {
		return nil, stageError(StageCollectingIDs, err)
	}
	s.logger.Info("channel resolved",
		zap.String("channel_title", channel.Title),
		zap.Int64("subscribers", channel.SubscriberCount),
		zap.String("uploads_playlist", channel.UploadsPlaylistID))

	ids, err := collector.NewCollector(s.playlists, policy, tracker, s.collector.PageSize, s.logger).
		Collect(ctx, channel.UploadsPlaylistID)
	if err != nil {
		return nil, stageError(StageCollectingIDs, err)
	}
	s.logger.Info("video IDs collected", zap.Int("count", len(ids)))
	s.logQuota(tracker)

	// FETCHING_RECORDS: resolve IDs into canonical records
	videos, skipped, err := collector.NewFetcher(s.videos, policy, tracker, s.collector.BatchSize, s.collector.NormalizeWorkers, s.logger).
		FetchAll(ctx, ids, start)
	if err != nil {
		return nil, stageError(StageFetchingRecords, err)
	}
	if skipped > 0 {
		s.logger.Warn("some items were skipped during normalization", zap.Int("skipped", skipped))
	}
	s.logQuota(tracker)

	// VALIDATING + PERSISTING: the store owns the pre-write gate and
	// commits snapshot, history and run log as one transaction
	entry := &model.RunLogEntry{
		ExecutedAt:   start,
		VideoCount:   len(videos),
		APICalls:     tracker.Calls(),
		QuotaUsed:    tracker.Used(),
		QuotaPercent: tracker.UsedFraction() * 100,
		ElapsedSecs:  s.now().Sub(start).Seconds(),
	}
	written, err := s.store.SaveRun(ctx, videos, entry)
	if err != nil {
		// A schema-gate rejection happens before any write
		if apperrors.IsCode(err, apperrors.CodeSchemaInvalid) {
			return nil, stageError(StageValidating, err)
		}
		return nil, stageError(StagePersisting, err)
	}

	report := buildReport(channel, videos, written, skipped, tracker, s.now().Sub(start))

	// CSV export is best-effort only in the sense that it happens after
	// the commit; its failure still fails the run so the operator sees it
	if s.csvOutput != "" {
		csvPath, err := exportCSV(videos, s.csvOutput, s.backupDir, start)
		if err != nil {
			return nil, stageError(StageExporting, err)
		}
		report.CSVPath = csvPath
		s.logger.Info("snapshot exported", zap.String("path", csvPath))
	}

	s.logger.Info("collection run finished",
		zap.Int("videos", written),
		zap.Int("skipped", skipped),
		zap.Int("api_calls", tracker.Calls()),
		zap.Int("quota_used", tracker.Used()),
		zap.Float64("quota_percent", tracker.UsedFraction()*100),
		zap.Duration("elapsed", report.Elapsed))

	return report, nil
}

// fetchChannel resolves the configured channel's metadata (1 quota unit)
func (s *collectionService) fetchChannel(ctx context.Context, policy *retry.Policy, tracker *quota.Tracker) (*model.Channel, error) {
	var channel *model.Channel
	err := policy.Do(ctx, func() error {
		ch, err := s.channels.FetchChannel(ctx, s.channelID)
		if err != nil {
			return err
		}
		channel = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	tracker.Record(youtube.OpChannelsList, 1)
	return channel, nil
}

// logQuota reports the budget state after a stage that spent units.
// It never stops the run.
func (s *collectionService) logQuota(tracker *quota.Tracker) {
	fields := []zap.Field{
		zap.Int("quota_used", tracker.Used()),
		zap.Int("quota_budget", tracker.Budget()),
		zap.Float64("quota_percent", tracker.UsedFraction()*100),
	}
	switch tracker.AlertLevel() {
	case quota.AlertCritical:
		s.logger.Error("quota budget nearly exhausted", fields...)
	case quota.AlertWarning:
		s.logger.Warn("quota budget running high", fields...)
	default:
		s.logger.Debug("quota budget state", fields...)
	}
}

// buildReport assembles the operator-facing summary of a run
func buildReport(channel *model.Channel, videos []*model.Video, written, skipped int, tracker *quota.Tracker, elapsed time.Duration) *model.RunReport {
	var views, likes, comments int64
	for _, v := range videos {
		views += v.ViewCount
		likes += v.LikeCount
		comments += v.CommentCount
	}
	return &model.RunReport{
		ChannelID:     channel.ID,
		ChannelTitle:  channel.Title,
		VideoCount:    written,
		SkippedCount:  skipped,
		APICalls:      tracker.Calls(),
		QuotaUsed:     tracker.Used(),
		QuotaPercent:  tracker.UsedFraction() * 100,
		Elapsed:       elapsed,
		TotalViews:    views,
		TotalLikes:    likes,
		TotalComments: comments,
	}
}

// stageError tags a failure with the pipeline stage that was reached
func stageError(stage string, err error) error {
	return fmt.Errorf("collection failed at stage %s: %w", stage, err)
}
