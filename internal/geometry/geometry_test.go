package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
)

func TestDistance(t *testing.T) {
	origin := model.Pt(0, 0)
	p := model.Pt(3, 4)

	assert.Equal(t, 5.0, Distance(origin, p, false))
	assert.Equal(t, 25.0, Distance(origin, p, true))
	assert.Equal(t, 0.0, Distance(p, p, true))
	assert.Equal(t, 125.0, SquaredDistance(model.Pt(0, 0), model.Pt(10, 5)))
}

func TestBoundingBox(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := BoundingBox(nil)
		assert.ErrorIs(t, err, common.ErrEmptyInput)
	})

	t.Run("single point", func(t *testing.T) {
		box, err := BoundingBox([]model.Point{model.Pt(2, 3)})
		require.NoError(t, err)
		assert.Equal(t, model.BoundingBox{MinX: 2, MinY: 3, MaxX: 2, MaxY: 3}, box)
		assert.Zero(t, box.Width())
	})

	t.Run("mixed signs", func(t *testing.T) {
		box, err := BoundingBox([]model.Point{model.Pt(0, 0), model.Pt(-1, 4), model.Pt(3, -2)})
		require.NoError(t, err)
		assert.Equal(t, model.BoundingBox{MinX: -1, MinY: -2, MaxX: 3, MaxY: 4}, box)
		assert.Equal(t, 4.0, box.Width())
		assert.Equal(t, 6.0, box.Height())
	})
}

func TestPerpendicularDistance(t *testing.T) {
	a, b := model.Pt(0, 0), model.Pt(10, 0)

	tests := []struct {
		name string
		p    model.Point
		want float64
	}{
		{name: "above the middle", p: model.Pt(5, 3), want: 3},
		{name: "on the segment", p: model.Pt(7, 0), want: 0},
		{name: "beyond the end clamps", p: model.Pt(13, 4), want: 5},
		{name: "before the start clamps", p: model.Pt(-3, -4), want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PerpendicularDistance(a, b, tt.p), 1e-12)
		})
	}

	t.Run("zero length segment", func(t *testing.T) {
		assert.Zero(t, PerpendicularDistance(a, a, model.Pt(4, 4)))
	})
}
