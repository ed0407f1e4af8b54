// Package storage provides the data persistence layer for the corpus.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/inkwell/internal/ink"
	"github.com/Veraticus/inkwell/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidSample = errors.New("invalid sample")
	ErrInvalidRun    = errors.New("invalid validation run")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a database id is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s=%d", ErrInvalidID, paramName, id)
	}
	return nil
}

// validateRawSample checks references and that the payload decodes.
func validateRawSample(sample *model.RawSample) error {
	if sample == nil {
		return fmt.Errorf("%w: sample", ErrNilParameter)
	}
	if sample.SymbolID <= 0 {
		return fmt.Errorf("%w: missing symbol id", ErrInvalidSample)
	}
	if sample.AcceptedSymbolID < 0 {
		return fmt.Errorf("%w: negative accepted symbol id", ErrInvalidSample)
	}
	if len(sample.Data) == 0 {
		return fmt.Errorf("%w: missing data", ErrInvalidSample)
	}

	parsed, err := ink.ParseSample(sample.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSample, err)
	}
	if parsed.PointCount() == 0 {
		return fmt.Errorf("%w: drawing has no points", ErrInvalidSample)
	}
	return nil
}

// validateRun validates a cross-validation report.
func validateRun(run *model.ValidationRun) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRun)
	}
	if run.StartedAt.IsZero() {
		return fmt.Errorf("%w: missing start time", ErrInvalidRun)
	}
	if run.FoldCount <= 0 {
		return fmt.Errorf("%w: fold count must be positive", ErrInvalidRun)
	}
	for _, acc := range []float64{run.Top1Accuracy, run.TopKAccuracy} {
		if acc < 0 || acc > 1 {
			return fmt.Errorf("%w: accuracy must be between 0 and 1", ErrInvalidRun)
		}
	}
	return nil
}
