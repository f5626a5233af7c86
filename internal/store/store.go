// Package store persists the generation-run registry behind a driver
// neutral interface, with SQLite and Postgres implementations.
package store

import (
	"context"

	"github.com/sells-group/uhi-synth/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for generation runs.
type Store interface {
	CreateRun(ctx context.Context, rows, cols int, seed int64) (*model.GenerationRun, error)
	CompleteRun(ctx context.Context, runID string, summary *model.RunSummary) error
	FailRun(ctx context.Context, runID string, cause error) error
	GetRun(ctx context.Context, runID string) (*model.GenerationRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.GenerationRun, error)

	Migrate(ctx context.Context) error
	Close() error
}
