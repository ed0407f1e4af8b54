// Package simplify implements Douglas–Peucker polyline decimation for pen
// strokes.
//
// Each stroke is simplified on its own; points are never merged across
// stroke boundaries. The first and last point of every stroke always
// survive. Splitting is driven by an explicit stack of index ranges over the
// original point buffer, so long strokes do not grow the call stack.
package simplify

import (
	"github.com/Veraticus/inkwell/internal/geometry"
	"github.com/Veraticus/inkwell/internal/model"
)

// span is a closed index range [start, end] into the stroke being simplified.
type span struct {
	start, end int
}

// Stroke returns the Douglas–Peucker simplification of stroke with the given
// tolerance. A run is split at its farthest interior point when that point's
// distance to the chord is at least epsilon; otherwise the run collapses to
// its two endpoints. The input is never modified.
func Stroke(stroke model.Stroke, epsilon float64) model.Stroke {
	n := len(stroke)
	if n <= 2 {
		return append(model.Stroke(nil), stroke...)
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true

	stack := []span{{start: 0, end: n - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.end-s.start < 2 {
			continue
		}

		index, dmax := farthest(stroke, s)
		if dmax < epsilon {
			continue
		}

		keep[index] = true
		stack = append(stack, span{start: index, end: s.end}, span{start: s.start, end: index})
	}

	out := make(model.Stroke, 0, n)
	for i, p := range stroke {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// farthest returns the interior point of s with the largest distance to the
// chord stroke[s.start]→stroke[s.end]. Ties keep the earliest index.
func farthest(stroke model.Stroke, s span) (int, float64) {
	a, b := stroke[s.start], stroke[s.end]

	index, dmax := s.start+1, -1.0
	for i := s.start + 1; i < s.end; i++ {
		if d := geometry.PerpendicularDistance(a, b, stroke[i]); d > dmax {
			index, dmax = i, d
		}
	}
	return index, dmax
}

// Sample simplifies every stroke of sample independently. An epsilon of zero
// or less disables simplification and returns an unchanged copy.
func Sample(sample model.Sample, epsilon float64) model.Sample {
	if epsilon <= 0 {
		return sample.Clone()
	}

	out := make(model.Sample, len(sample))
	for i, stroke := range sample {
		out[i] = Stroke(stroke, epsilon)
	}
	return out
}
