// Package service orchestrates one collection run: channel lookup,
// ID collection, record fetch and the persistence of the results.
package service

import (
	"context"

	"github.com/Taichi-iskw/yt-metrics/internal/model"
)

// Stage names of the collection pipeline, reported on failure
const (
	StageCollectingIDs   = "COLLECTING_IDS"
	StageFetchingRecords = "FETCHING_RECORDS"
	StageValidating      = "VALIDATING"
	StagePersisting      = "PERSISTING"
	StageExporting       = "EXPORTING"
)

// CollectionService runs one full collection cycle for the configured
// channel
type CollectionService interface {
	// Run executes the pipeline and returns a summary of the run.
	// On failure the error names the stage that was reached; storage
	// is left untouched unless the run reached a successful commit.
	Run(ctx context.Context) (*model.RunReport, error)
}
