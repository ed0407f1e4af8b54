// Package engine orchestrates recognition, corpus imports and
// cross-validation on top of the storage layer.
package engine

import (
	"context"

	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/storage"
)

// ProgressReporter receives progress from long-running operations.
// Implementations must be safe for concurrent Increment calls.
type ProgressReporter interface {
	Start(total int, description string)
	Increment()
	Finish()
}

// Snapshotter takes a restorable copy of the corpus before bulk writes.
type Snapshotter interface {
	Auto(ctx context.Context, operation string) (*storage.SnapshotInfo, error)
}

// RunStore persists cross-validation reports.
type RunStore interface {
	SaveValidationRun(ctx context.Context, run *model.ValidationRun) error
}

type nopProgress struct{}

func (nopProgress) Start(int, string) {}
func (nopProgress) Increment()        {}
func (nopProgress) Finish()           {}
