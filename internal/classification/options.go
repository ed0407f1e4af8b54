// Package classification ranks corpus samples against a query drawing.
//
// For every labeled sample it optionally simplifies the strokes, flattens
// them into one sequence, normalizes that sequence into the unit square and
// aligns it with the query. Distances at or above Threshold are discarded,
// each formula keeps its best distance, the TopK best formulas survive and
// are converted into probabilities with a softmax over negative distance.
package classification

import (
	"fmt"

	"github.com/Veraticus/inkwell/internal/align"
	"github.com/Veraticus/inkwell/internal/common"
)

// Default tuning values.
const (
	DefaultThreshold = 20.0
	DefaultTopK      = 10
)

// Options configures a classification call.
type Options struct {
	Diagnostics *common.Diagnostics
	Mode        align.Mode
	Epsilon     float64 // Douglas–Peucker tolerance, 0 disables simplification
	Threshold   float64 // candidates with distance >= Threshold are dropped
	TopK        int     // maximum number of formulas returned
	Workers     int     // parallel candidate evaluations, <= 1 runs inline
	Center      bool    // center samples inside the unit square
}

// DefaultOptions returns the standard settings.
func DefaultOptions() Options {
	return Options{
		Mode:      align.ModeDTW,
		Threshold: DefaultThreshold,
		TopK:      DefaultTopK,
		Workers:   1,
	}
}

// Validate checks the numeric ranges.
func (o Options) Validate() error {
	if o.Epsilon < 0 {
		return fmt.Errorf("%w: epsilon must be >= 0, got %g", common.ErrInvalidConfig, o.Epsilon)
	}
	if o.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be > 0, got %g", common.ErrInvalidConfig, o.Threshold)
	}
	if o.TopK <= 0 {
		return fmt.Errorf("%w: top-k must be > 0, got %d", common.ErrInvalidConfig, o.TopK)
	}
	if _, err := align.ParseMode(string(o.Mode)); err != nil {
		return err
	}
	return nil
}

func (o Options) alignOptions() *align.Options {
	return &align.Options{Mode: o.Mode, Diagnostics: o.Diagnostics}
}
