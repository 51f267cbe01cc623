package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Taichi-iskw/yt-metrics/internal/model"
)

// csvHeader matches the snapshot table's column order
var csvHeader = []string{
	"id", "title", "published_at",
	"view_count", "like_count", "comment_count",
	"duration_seconds", "thumbnail_url", "collected_at",
}

// exportCSV writes the run's records to path and, when backupDir is
// set, keeps a timestamped copy there. Returns the primary path.
func exportCSV(videos []*model.Video, path, backupDir string, runTime time.Time) (string, error) {
	if err := writeCSV(videos, path); err != nil {
		return "", err
	}

	if backupDir != "" {
		if err := os.MkdirAll(backupDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create backup directory: %w", err)
		}
		base := filepath.Base(path)
		ext := filepath.Ext(base)
		name := base[:len(base)-len(ext)]
		backupPath := filepath.Join(backupDir, fmt.Sprintf("%s_%s%s", name, runTime.Format("20060102_150405"), ext))
		if err := writeCSV(videos, backupPath); err != nil {
			return "", err
		}
	}

	return path, nil
}

func writeCSV(videos []*model.Video, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, v := range videos {
		record := []string{
			v.ID,
			v.Title,
			v.PublishedAt.Format(time.RFC3339),
			strconv.FormatInt(v.ViewCount, 10),
			strconv.FormatInt(v.LikeCount, 10),
			strconv.FormatInt(v.CommentCount, 10),
			strconv.FormatInt(v.DurationSeconds, 10),
			v.ThumbnailURL,
			v.CollectedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}
