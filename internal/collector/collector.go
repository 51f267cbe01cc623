// Package collector walks a channel's uploads playlist and turns the
// API's raw video resources into canonical records.
package collector

import (
	"context"

	"go.uber.org/zap"

	"github.com/Taichi-iskw/yt-metrics/internal/quota"
	"github.com/Taichi-iskw/yt-metrics/internal/retry"
	"github.com/Taichi-iskw/yt-metrics/internal/youtube"
)

// Collector gathers every video ID of a playlist, page by page
type Collector struct {
	source   youtube.PlaylistSource
	policy   *retry.Policy
	tracker  *quota.Tracker
	pageSize int
	logger   *zap.Logger
}

// NewCollector creates a Collector bound to one run's quota tracker
func NewCollector(source youtube.PlaylistSource, policy *retry.Policy, tracker *quota.Tracker, pageSize int, logger *zap.Logger) *Collector {
	if pageSize < 1 {
		pageSize = 50
	}
	return &Collector{
		source:   source,
		policy:   policy,
		tracker:  tracker,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Collect walks the playlist with continuation tokens until the source
// reports no next page, returning video IDs in API order. A page that
// still fails after retries fails the whole collection: a truncated ID
// list would corrupt the snapshot downstream.
func (c *Collector) Collect(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	token := ""

	for page := 1; ; page++ {
		var current *youtube.PlaylistPage
		err := c.policy.Do(ctx, func() error {
			p, err := c.source.ListPage(ctx, playlistID, c.pageSize, token)
			if err != nil {
				return err
			}
			current = p
			return nil
		})
		if err != nil {
			return nil, err
		}
		c.tracker.Record(youtube.OpPlaylistItemsList, 1)

		ids = append(ids, current.VideoIDs...)
		c.logger.Debug("collected playlist page",
			zap.Int("page", page),
			zap.Int("page_items", len(current.VideoIDs)),
			zap.Int("total_ids", len(ids)))

		if current.NextPageToken == "" {
			break
		}
		token = current.NextPageToken
	}

	return ids, nil
}
