package align

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
)

func points(coords ...float64) []model.Point {
	out := make([]model.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, model.Pt(coords[i], coords[i+1]))
	}
	return out
}

func randomPoints(r *rand.Rand, n int) []model.Point {
	out := make([]model.Point, n)
	for i := range out {
		out[i] = model.Pt(r.Float64(), r.Float64())
	}
	return out
}

func TestDTW(t *testing.T) {
	tests := []struct {
		name string
		a, b []model.Point
		want float64
	}{
		{
			name: "two point example",
			a:    points(0, 0, 1, 1),
			b:    points(0, 0, 0, 2),
			want: 2,
		},
		{
			name: "single point against a line",
			a:    points(0, 0),
			b:    points(0, 0, 1, 0, 2, 0),
			want: 5,
		},
		{
			name: "repeated points warp for free",
			a:    points(0, 0, 1, 0, 2, 0),
			b:    points(0, 0, 0, 0, 1, 0, 1, 0, 2, 0),
			want: 0,
		},
		{
			name: "empty side",
			a:    nil,
			b:    points(1, 1),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DTW(tt.a, tt.b), 1e-12)
			assert.InDelta(t, tt.want, DTW(tt.b, tt.a), 1e-12)
		})
	}
}

func TestDTW_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for trial := 0; trial < 25; trial++ {
		a := randomPoints(r, 1+r.Intn(40))
		b := randomPoints(r, 1+r.Intn(40))

		assert.Zero(t, DTW(a, a), "self alignment must be exact")

		d := DTW(a, b)
		assert.GreaterOrEqual(t, d, 0.0)

		dx, dy := r.Float64()*100-50, r.Float64()*100-50
		shift := func(ps []model.Point) []model.Point {
			out := make([]model.Point, len(ps))
			for i, p := range ps {
				out[i] = model.Pt(p.X+dx, p.Y+dy)
			}
			return out
		}
		assert.InDelta(t, d, DTW(shift(a), shift(b)), 1e-6, "translation invariance")

		assert.GreaterOrEqual(t, Greedy(a, b)+1e-12, d, "greedy is never better than DTW")
	}
}

func TestGreedy(t *testing.T) {
	tests := []struct {
		name string
		a, b []model.Point
		want float64
	}{
		{
			name: "diagonal preferred on ties",
			a:    points(0, 0, 1, 1),
			b:    points(0, 0, 0, 2),
			want: 2,
		},
		{
			name: "tail of longer sequence charged to last point",
			a:    points(0, 0),
			b:    points(0, 0, 1, 0, 2, 0),
			want: 5,
		},
		{
			name: "tail of a",
			a:    points(0, 0, 0, 1, 0, 2),
			b:    points(0, 0),
			want: 5,
		},
		{
			name: "identical",
			a:    points(0, 0, 0.5, 0.5, 1, 1),
			b:    points(0, 0, 0.5, 0.5, 1, 1),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Greedy(tt.a, tt.b), 1e-12)
		})
	}
}

func TestGreedy_DoesNotMutate(t *testing.T) {
	a := points(0, 0, 1, 0, 2, 0)
	b := points(0, 1, 1, 1)
	_ = Greedy(a, b)
	assert.Equal(t, points(0, 0, 1, 0, 2, 0), a)
	assert.Equal(t, points(0, 1, 1, 1), b)
}

func TestDistance(t *testing.T) {
	a := points(0, 0, 1, 0, 2, 0, 3, 3)
	b := points(0, 0, 2, 0, 3, 2)

	t.Run("nil options use dtw", func(t *testing.T) {
		assert.Equal(t, DTW(a, b), Distance(a, b, nil))
	})

	t.Run("greedy mode", func(t *testing.T) {
		assert.Equal(t, Greedy(a, b), Distance(a, b, &Options{Mode: ModeGreedy}))
	})

	t.Run("empty input is tolerated and reported", func(t *testing.T) {
		diag := common.NewDiagnostics(nil)
		d := Distance(nil, b, &Options{Diagnostics: diag})
		assert.Zero(t, d)

		warnings := diag.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, 0, warnings[0].Fields["len_a"])
		assert.Equal(t, 3, warnings[0].Fields["len_b"])
	})
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeDTW, m)

	m, err = ParseMode("greedy")
	require.NoError(t, err)
	assert.Equal(t, ModeGreedy, m)

	_, err = ParseMode("fastdtw")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
