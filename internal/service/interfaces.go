// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/inkwell/internal/model"
)

// SampleFilter narrows corpus queries.
type SampleFilter struct {
	SymbolID int64 // 0 means every symbol
	Limit    int   // 0 means no limit
	Offset   int
}

// CorpusWriter is the part of the storage contract used when recording new
// drawings.
type CorpusWriter interface {
	CreateSymbol(ctx context.Context, label string) (*model.Symbol, error)
	GetSymbolByLabel(ctx context.Context, label string) (*model.Symbol, error)
	SaveSample(ctx context.Context, sample *model.RawSample) error
}

// CorpusReader supplies labeled recordings to the recognizer.
type CorpusReader interface {
	GetSamples(ctx context.Context, filter SampleFilter) ([]model.RawSample, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CorpusWriter
	CorpusReader

	// Symbol operations
	GetSymbol(ctx context.Context, id int64) (*model.Symbol, error)
	GetSymbols(ctx context.Context) ([]model.Symbol, error)
	GetSymbolCounts(ctx context.Context) ([]model.SymbolCount, error)
	DeleteSymbol(ctx context.Context, id int64) error

	// Sample operations
	GetSample(ctx context.Context, id int64) (*model.RawSample, error)
	CountSamples(ctx context.Context) (int, error)
	DeleteSample(ctx context.Context, id int64) error

	// Validation reports
	SaveValidationRun(ctx context.Context, run *model.ValidationRun) error
	GetValidationRun(ctx context.Context, id string) (*model.ValidationRun, error)
	GetValidationRuns(ctx context.Context, limit int) ([]model.ValidationRun, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	CorpusWriter
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ImportStats summarizes a corpus import.
type ImportStats struct {
	Duration       time.Duration
	SymbolsCreated int
	SamplesSaved   int
	Duplicates     int
	Malformed      int
}
