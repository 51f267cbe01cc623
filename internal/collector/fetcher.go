package collector

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Taichi-iskw/yt-metrics/internal/model"
	"github.com/Taichi-iskw/yt-metrics/internal/quota"
	"github.com/Taichi-iskw/yt-metrics/internal/retry"
	"github.com/Taichi-iskw/yt-metrics/internal/youtube"
)

// Fetcher resolves collected IDs into canonical records, one API call
// per fixed-size batch
type Fetcher struct {
	source    youtube.VideoSource
	policy    *retry.Policy
	tracker   *quota.Tracker
	batchSize int
	workers   int
	logger    *zap.Logger
}

// NewFetcher creates a Fetcher bound to one run's quota tracker.
// workers bounds the normalization pool per batch.
func NewFetcher(source youtube.VideoSource, policy *retry.Policy, tracker *quota.Tracker, batchSize, workers int, logger *zap.Logger) *Fetcher {
	if batchSize < 1 {
		batchSize = 50
	}
	if workers < 1 {
		workers = 1
	}
	return &Fetcher{
		source:    source,
		policy:    policy,
		tracker:   tracker,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
	}
}

// FetchAll fetches full records for ids in consecutive batches and
// normalizes them. A batch that still fails after retries fails the
// whole fetch; a single malformed item inside a batch does not — it is
// counted, logged and skipped. Returns the records in API order plus
// the number of skipped items.
func (f *Fetcher) FetchAll(ctx context.Context, ids []string, collectedAt time.Time) ([]*model.Video, int, error) {
	videos := make([]*model.Video, 0, len(ids))
	skipped := 0

	for start := 0; start < len(ids); start += f.batchSize {
		end := start + f.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		var raws []youtube.RawVideo
		err := f.policy.Do(ctx, func() error {
			r, err := f.source.FetchBatch(ctx, batch)
			if err != nil {
				return err
			}
			raws = r
			return nil
		})
		if err != nil {
			return nil, 0, err
		}
		f.tracker.Record(youtube.OpVideosList, 1)

		batchVideos, batchSkipped := f.normalizeBatch(raws, collectedAt)
		videos = append(videos, batchVideos...)
		skipped += batchSkipped

		f.logger.Debug("fetched video batch",
			zap.Int("requested", len(batch)),
			zap.Int("returned", len(raws)),
			zap.Int("skipped", batchSkipped))
	}

	return videos, skipped, nil
}

// normalizeBatch runs Normalize across the worker pool. Each worker
// writes only to its own result slots, so order is preserved without
// locking; skipped items leave nil slots that are dropped afterwards.
func (f *Fetcher) normalizeBatch(raws []youtube.RawVideo, collectedAt time.Time) ([]*model.Video, int) {
	type job struct {
		idx int
		raw youtube.RawVideo
	}

	results := make([]*model.Video, len(raws))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				video, err := Normalize(j.raw, collectedAt)
				if err != nil {
					f.logger.Warn("skipping malformed video item",
						zap.String("video_id", j.raw.ID),
						zap.Error(err))
					continue
				}
				results[j.idx] = video
			}
		}()
	}

	for i, raw := range raws {
		jobs <- job{idx: i, raw: raw}
	}
	close(jobs)
	wg.Wait()

	videos := make([]*model.Video, 0, len(raws))
	skipped := 0
	for _, v := range results {
		if v == nil {
			skipped++
			continue
		}
		videos = append(videos, v)
	}
	return videos, skipped
}
