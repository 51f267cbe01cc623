package youtube

import (
	"context"

	"github.com/Taichi-iskw/yt-metrics/internal/model"
)

// Operation kinds used for quota accounting. Values match the
// Data API method names so the config cost table can key off them.
const (
	OpChannelsList      = "channels.list"
	OpPlaylistItemsList = "playlistItems.list"
	OpVideosList        = "videos.list"
)

// ChannelSource resolves a channel's metadata and uploads playlist
type ChannelSource interface {
	FetchChannel(ctx context.Context, channelID string) (*model.Channel, error)
}

// PlaylistSource lists one page of playlist items per call
type PlaylistSource interface {
	ListPage(ctx context.Context, playlistID string, pageSize int, pageToken string) (*PlaylistPage, error)
}

// VideoSource fetches full raw records for a batch of video IDs
type VideoSource interface {
	FetchBatch(ctx context.Context, ids []string) ([]RawVideo, error)
}

// PlaylistPage is one page of playlist items. An empty NextPageToken
// means the playlist is exhausted.
type PlaylistPage struct {
	VideoIDs      []string
	NextPageToken string
}

// RawVideo is the API's weakly-typed video resource, before
// normalization. Counters arrive as decimal strings and may be absent.
type RawVideo struct {
	ID             string         `json:"id"`
	Snippet        Snippet        `json:"snippet"`
	ContentDetails ContentDetails `json:"contentDetails"`
	Statistics     Statistics     `json:"statistics"`
}

// Snippet carries the descriptive part of a video resource
type Snippet struct {
	Title       string     `json:"title"`
	PublishedAt string     `json:"publishedAt"`
	Thumbnails  Thumbnails `json:"thumbnails"`
}

// ContentDetails carries the ISO-8601 duration of a video
type ContentDetails struct {
	Duration string `json:"duration"`
}

// Statistics carries the counter part of a video resource
type Statistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

// Thumbnails holds the variants the API may return for one video
type Thumbnails struct {
	Maxres  Thumbnail `json:"maxres"`
	High    Thumbnail `json:"high"`
	Medium  Thumbnail `json:"medium"`
	Default Thumbnail `json:"default"`
}

// Thumbnail is a single thumbnail variant
type Thumbnail struct {
	URL string `json:"url"`
}
