package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
)

func TestNormalize(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Normalize(nil, false)
		assert.ErrorIs(t, err, common.ErrEmptyInput)
	})

	t.Run("square diagonal", func(t *testing.T) {
		out, err := Normalize([]model.Point{model.Pt(0, 0), model.Pt(10, 10)}, false)
		require.NoError(t, err)
		assert.Equal(t, []model.Point{model.Pt(0, 0), model.Pt(1, 1)}, out)
	})

	t.Run("keeps aspect ratio", func(t *testing.T) {
		in := []model.Point{model.Pt(2, 1), model.Pt(12, 6), model.Pt(7, 3)}
		out, err := Normalize(in, false)
		require.NoError(t, err)

		before, _ := BoundingBox(in)
		after, err := BoundingBox(out)
		require.NoError(t, err)

		assert.InDelta(t, 1.0, after.Width(), 1e-12)
		assert.InDelta(t, before.Width()/before.Height(), after.Width()/after.Height(), 1e-9)
		for _, p := range out {
			assert.GreaterOrEqual(t, p.X, 0.0)
			assert.LessOrEqual(t, p.X, 1.0)
			assert.GreaterOrEqual(t, p.Y, 0.0)
			assert.LessOrEqual(t, p.Y, 1.0)
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []model.Point{model.Pt(5, 5), model.Pt(15, 25)}
		_, err := Normalize(in, true)
		require.NoError(t, err)
		assert.Equal(t, []model.Point{model.Pt(5, 5), model.Pt(15, 25)}, in)
	})

	t.Run("single point clamps factor", func(t *testing.T) {
		out, err := Normalize([]model.Point{model.Pt(4, 9)}, false)
		require.NoError(t, err)
		assert.Equal(t, []model.Point{model.Pt(0, 0)}, out)
	})

	t.Run("vertical line", func(t *testing.T) {
		out, err := Normalize([]model.Point{model.Pt(3, 0), model.Pt(3, 5)}, false)
		require.NoError(t, err)
		assert.Equal(t, []model.Point{model.Pt(0, 0), model.Pt(0, 1)}, out)
	})

	t.Run("center wide shape", func(t *testing.T) {
		out, err := Normalize([]model.Point{model.Pt(0, 0), model.Pt(10, 5)}, true)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.InDelta(t, 0.0, out[0].X, 1e-12)
		assert.InDelta(t, 0.25, out[0].Y, 1e-12)
		assert.InDelta(t, 1.0, out[1].X, 1e-12)
		assert.InDelta(t, 0.75, out[1].Y, 1e-12)
	})

	t.Run("center tall shape", func(t *testing.T) {
		out, err := Normalize([]model.Point{model.Pt(0, 0), model.Pt(2, 8)}, true)
		require.NoError(t, err)
		assert.InDelta(t, 0.375, out[0].X, 1e-12)
		assert.InDelta(t, 0.625, out[1].X, 1e-12)
		assert.InDelta(t, 1.0, out[1].Y, 1e-12)
	})

	t.Run("center single point", func(t *testing.T) {
		out, err := Normalize([]model.Point{model.Pt(1, 1)}, true)
		require.NoError(t, err)
		assert.Equal(t, []model.Point{model.Pt(0.5, 0.5)}, out)
	})

	t.Run("keeps timestamps", func(t *testing.T) {
		ts := 12.5
		out, err := Normalize([]model.Point{{X: 1, Y: 1, Time: &ts}, model.Pt(2, 2)}, false)
		require.NoError(t, err)
		require.NotNil(t, out[0].Time)
		assert.Equal(t, 12.5, *out[0].Time)
	})
}
