package classification

import (
	"github.com/Veraticus/inkwell/internal/geometry"
	"github.com/Veraticus/inkwell/internal/ink"
	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/simplify"
)

// Prepare turns a drawn sample into the sequence the aligner compares:
// per-stroke simplification when epsilon > 0, flattening, then
// normalization. An empty sample fails with common.ErrEmptyInput.
func Prepare(sample model.Sample, epsilon float64, center bool) ([]model.Point, error) {
	if epsilon > 0 {
		sample = simplify.Sample(sample, epsilon)
	}
	return geometry.Normalize(ink.Flatten(sample), center)
}
