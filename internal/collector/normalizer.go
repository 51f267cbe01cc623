package collector

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sosodev/duration"

	apperrors "github.com/Taichi-iskw/yt-metrics/internal/errors"
	"github.com/Taichi-iskw/yt-metrics/internal/model"
	"github.com/Taichi-iskw/yt-metrics/internal/youtube"
)

// untitledPlaceholder stands in for videos the API returns without a title
const untitledPlaceholder = "(untitled)"

// Normalize projects a raw API video resource into a canonical record.
// It fails only when the item carries no ID; every other defect is
// absorbed with a defined default so one odd field never costs a record.
func Normalize(raw youtube.RawVideo, collectedAt time.Time) (*model.Video, error) {
	if raw.ID == "" {
		return nil, apperrors.New(apperrors.CodeMalformedRecord, "video item has no ID")
	}

	title := raw.Snippet.Title
	if title == "" {
		title = untitledPlaceholder
	}

	// parse failures leave the zero time
	publishedAt, _ := time.Parse(time.RFC3339, raw.Snippet.PublishedAt)

	return &model.Video{
		ID:              raw.ID,
		Title:           title,
		PublishedAt:     publishedAt,
		ViewCount:       parseCount(raw.Statistics.ViewCount),
		LikeCount:       parseCount(raw.Statistics.LikeCount),
		CommentCount:    parseCount(raw.Statistics.CommentCount),
		DurationSeconds: parseDurationSeconds(raw.ContentDetails.Duration),
		ThumbnailURL:    pickThumbnail(raw.Snippet.Thumbnails, raw.ID),
		CollectedAt:     collectedAt,
	}, nil
}

// parseCount reads a decimal counter; absent or malformed values
// default to 0, never negative
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseDurationSeconds converts an ISO-8601 duration to whole seconds;
// parse failures yield 0
func parseDurationSeconds(iso string) int64 {
	if iso == "" {
		return 0
	}
	d, err := duration.Parse(iso)
	if err != nil {
		return 0
	}
	return int64(d.ToTimeDuration() / time.Second)
}

// pickThumbnail returns the best available thumbnail variant, falling
// back to the predictable default-quality URL for the video ID
func pickThumbnail(t youtube.Thumbnails, id string) string {
	for _, url := range []string{t.Maxres.URL, t.High.URL, t.Medium.URL, t.Default.URL} {
		if url != "" {
			return url
		}
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id)
}
