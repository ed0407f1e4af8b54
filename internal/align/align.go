package align

import (
	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/geometry"
	"github.com/Veraticus/inkwell/internal/model"
)

// Distance aligns a and b with the algorithm chosen in opts.
func Distance(a, b []model.Point, opts *Options) float64 {
	mode := ModeDTW
	var diag *common.Diagnostics
	if opts != nil {
		if opts.Mode != "" {
			mode = opts.Mode
		}
		diag = opts.Diagnostics
	}

	if len(a) == 0 || len(b) == 0 {
		diag.Warn("alignment input was empty, reporting distance 0", common.Fields{
			"len_a": len(a),
			"len_b": len(b),
			"mode":  string(mode),
		})
		return 0
	}

	if mode == ModeGreedy {
		return Greedy(a, b)
	}
	return DTW(a, b)
}

// DTW returns the dynamic time warping distance between a and b.
// Empty input yields 0.
func DTW(a, b []model.Point) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// The recurrence is symmetric, so let the rows run over the shorter side.
	if len(b) > len(a) {
		a, b = b, a
	}
	m := len(b)

	prev := make([]float64, m)
	curr := make([]float64, m)

	prev[0] = geometry.SquaredDistance(a[0], b[0])
	for j := 1; j < m; j++ {
		prev[j] = prev[j-1] + geometry.SquaredDistance(a[0], b[j])
	}

	for i := 1; i < len(a); i++ {
		curr[0] = prev[0] + geometry.SquaredDistance(a[i], b[0])
		for j := 1; j < m; j++ {
			curr[j] = geometry.SquaredDistance(a[i], b[j]) + min(prev[j], curr[j-1], prev[j-1])
		}
		prev, curr = curr, prev
	}

	return prev[m-1]
}

// Greedy returns the cursor-based approximation of the DTW distance.
// Ties prefer the diagonal move, then advancing a, then advancing b.
// Empty input yields 0.
func Greedy(a, b []model.Point) float64 {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0
	}

	i, j := 0, 0
	d := geometry.SquaredDistance(a[0], b[0])

	for i < n-1 && j < m-1 {
		both := geometry.SquaredDistance(a[i+1], b[j+1])
		nextA := geometry.SquaredDistance(a[i+1], b[j])
		nextB := geometry.SquaredDistance(a[i], b[j+1])

		switch step := min(both, nextA, nextB); step {
		case both:
			i++
			j++
			d += both
		case nextA:
			i++
			d += nextA
		default:
			j++
			d += nextB
		}
	}

	for ; j < m-1; j++ {
		d += geometry.SquaredDistance(a[i], b[j+1])
	}
	for ; i < n-1; i++ {
		d += geometry.SquaredDistance(a[i+1], b[j])
	}

	return d
}
