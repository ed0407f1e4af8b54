package geometry

import (
	"fmt"
	"math"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
)

// Distance returns the squared Euclidean distance between p1 and p2 when
// squared is true, else its square root.
func Distance(p1, p2 model.Point, squared bool) float64 {
	d := SquaredDistance(p1, p2)
	if squared {
		return d
	}
	return math.Sqrt(d)
}

// SquaredDistance is the local cost used by the aligners.
func SquaredDistance(p1, p2 model.Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return dx*dx + dy*dy
}

// BoundingBox returns the minimal axis-aligned box containing points.
func BoundingBox(points []model.Point) (model.BoundingBox, error) {
	if len(points) == 0 {
		return model.BoundingBox{}, fmt.Errorf("%w: bounding box of zero points", common.ErrEmptyInput)
	}

	box := model.BoundingBox{
		MinX: points[0].X,
		MinY: points[0].Y,
		MaxX: points[0].X,
		MaxY: points[0].Y,
	}
	for _, p := range points[1:] {
		if p.X < box.MinX {
			box.MinX = p.X
		}
		if p.X > box.MaxX {
			box.MaxX = p.X
		}
		if p.Y < box.MinY {
			box.MinY = p.Y
		}
		if p.Y > box.MaxY {
			box.MaxY = p.Y
		}
	}
	return box, nil
}

// PerpendicularDistance returns the distance from p to the segment a→b.
// The projection is clamped to the segment. A zero-length segment yields 0.
func PerpendicularDistance(a, b, p model.Point) float64 {
	px := b.X - a.X
	py := b.Y - a.Y

	lengthSq := px*px + py*py
	if lengthSq == 0 {
		return 0
	}

	u := ((p.X-a.X)*px + (p.Y-a.Y)*py) / lengthSq
	switch {
	case u > 1:
		u = 1
	case u < 0:
		u = 0
	}

	nearest := model.Point{X: a.X + u*px, Y: a.Y + u*py}
	return Distance(nearest, p, false)
}
