package geometry

import (
	"fmt"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
)

// Normalize scales and translates points into the unit square, keeping the
// aspect ratio. With center set, the shorter axis is offset so the shape
// sits in the middle of the square instead of at the origin corner; the
// offset per axis is (1 - extent*factor)/2, which is never negative.
// The returned slice is newly allocated; timestamps are carried over.
func Normalize(points []model.Point, center bool) ([]model.Point, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: normalize zero points", common.ErrEmptyInput)
	}

	box, err := BoundingBox(points)
	if err != nil {
		return nil, err
	}

	factorX, factorY := 1.0, 1.0
	if w := box.Width(); w != 0 {
		factorX = 1 / w
	}
	if h := box.Height(); h != 0 {
		factorY = 1 / h
	}

	factor := min(factorX, factorY)

	var addX, addY float64
	if center {
		// The longer axis already spans [0,1]; the slack on the other one is
		// split evenly on both sides.
		addX = (1 - box.Width()*factor) / 2
		addY = (1 - box.Height()*factor) / 2
	}

	out := make([]model.Point, len(points))
	for i, p := range points {
		out[i] = model.Point{
			X:    (p.X-box.MinX)*factor + addX,
			Y:    (p.Y-box.MinY)*factor + addY,
			Time: p.Time,
		}
	}
	return out, nil
}
