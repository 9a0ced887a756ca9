// Package store archives fit runs so past cooling-history fits can be
// listed and reloaded.
package store

import (
	"context"

	"github.com/geochron-tools/snac-cli/internal/model"
)

// FitRunFilter specifies criteria for listing archived fit runs.
type FitRunFilter struct {
	Status model.FitRunStatus `json:"status,omitempty"`
	Limit  int                `json:"limit,omitempty"`
	Offset int                `json:"offset,omitempty"`
}

// Store defines the persistence interface for the fit archive.
type Store interface {
	CreateFitRun(ctx context.Context, d model.Diamond, opts model.FitOptions) (*model.FitRun, error)
	CompleteFitRun(ctx context.Context, runID string, summary *model.FitSummary) error
	FailFitRun(ctx context.Context, runID string, summary *model.FitSummary) error
	GetFitRun(ctx context.Context, runID string) (*model.FitRun, error)
	ListFitRuns(ctx context.Context, filter FitRunFilter) ([]model.FitRun, error)

	Migrate(ctx context.Context) error
	Close() error
}
