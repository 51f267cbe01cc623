package model

import "time"

// Channel represents YouTube channel information
type Channel struct {
	ID                string `json:"id" db:"id"`
	Title             string `json:"title" db:"title"`
	UploadsPlaylistID string `json:"uploads_playlist_id" db:"uploads_playlist_id"`
	SubscriberCount   int64  `json:"subscriber_count" db:"subscriber_count"`
}

// Video represents one video's statistics at collection time
type Video struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	PublishedAt     time.Time `json:"published_at" db:"published_at"`
	ViewCount       int64     `json:"view_count" db:"view_count"`
	LikeCount       int64     `json:"like_count" db:"like_count"`
	CommentCount    int64     `json:"comment_count" db:"comment_count"`
	DurationSeconds int64     `json:"duration_seconds" db:"duration_seconds"` // duration in seconds
	ThumbnailURL    string    `json:"thumbnail_url" db:"thumbnail_url"`
	CollectedAt     time.Time `json:"collected_at" db:"collected_at"` // Run start time, shared by all records of a run
}

// RunLogEntry represents one row of the append-only run log
type RunLogEntry struct {
	ID            int       `json:"id" db:"id"`
	ExecutedAt    time.Time `json:"executed_at" db:"executed_at"`
	VideoCount    int       `json:"video_count" db:"video_count"`
	APICalls      int       `json:"api_calls" db:"api_calls"`
	QuotaUsed     int       `json:"quota_used" db:"quota_used"`
	QuotaPercent  float64   `json:"quota_percent" db:"quota_percent"`
	ElapsedSecs   float64   `json:"elapsed_seconds" db:"elapsed_seconds"`
	TotalViews    int64     `json:"total_views" db:"total_views"`
	TotalLikes    int64     `json:"total_likes" db:"total_likes"`
	TotalComments int64     `json:"total_comments" db:"total_comments"`
}

// RunReport summarizes a finished collection run for display
type RunReport struct {
	ChannelID     string        `json:"channel_id"`
	ChannelTitle  string        `json:"channel_title"`
	VideoCount    int           `json:"video_count"`
	SkippedCount  int           `json:"skipped_count"`
	APICalls      int           `json:"api_calls"`
	QuotaUsed     int           `json:"quota_used"`
	QuotaPercent  float64       `json:"quota_percent"`
	Elapsed       time.Duration `json:"elapsed"`
	TotalViews    int64         `json:"total_views"`
	TotalLikes    int64         `json:"total_likes"`
	TotalComments int64         `json:"total_comments"`
	CSVPath       string        `json:"csv_path,omitempty"`
}
