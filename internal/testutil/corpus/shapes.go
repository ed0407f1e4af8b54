package corpus

import (
	"fmt"
	"math"

	"github.com/Veraticus/inkwell/internal/model"
)

// Shape names a procedurally drawn symbol.
type Shape string

// Available shapes.
const (
	ShapeHLine  Shape = "hline"
	ShapeVLine  Shape = "vline"
	ShapeCircle Shape = "circle"
	ShapeVee    Shape = "vee"
	ShapeCross  Shape = "cross"
	ShapeZigzag Shape = "zigzag"
)

// Shapes lists every shape Draw understands.
var Shapes = []Shape{ShapeHLine, ShapeVLine, ShapeCircle, ShapeVee, ShapeCross, ShapeZigzag}

// Draw renders variant v of shape. Unknown shapes panic.
func Draw(shape Shape, v int) model.Sample {
	scale := 10 * (1 + 0.1*float64(v%5))
	dx, dy := float64(v*7), float64(v*3)

	// wobble keeps variants distinct without changing the overall shape.
	wobble := func(i int) float64 {
		return 0.02 * scale * math.Sin(float64(v+1)*float64(i+1))
	}
	pt := func(i int, x, y float64) model.Point {
		return model.Pt(dx+x*scale+wobble(i), dy+y*scale+wobble(i+7))
	}
	line := func(x0, y0, x1, y1 float64, n int) model.Stroke {
		s := make(model.Stroke, n)
		for i := range n {
			t := float64(i) / float64(n-1)
			s[i] = pt(i, x0+(x1-x0)*t, y0+(y1-y0)*t)
		}
		return s
	}

	switch shape {
	case ShapeHLine:
		return model.Sample{line(0, 0, 1, 0, 8)}
	case ShapeVLine:
		return model.Sample{line(0, 0, 0, 1, 8)}
	case ShapeCircle:
		s := make(model.Stroke, 16)
		for i := range s {
			a := 2 * math.Pi * float64(i) / float64(len(s)-1)
			s[i] = pt(i, 0.5+0.5*math.Cos(a), 0.5+0.5*math.Sin(a))
		}
		return model.Sample{s}
	case ShapeVee:
		return model.Sample{append(line(0, 0, 0.5, 1, 6), line(0.5, 1, 1, 0, 6)[1:]...)}
	case ShapeCross:
		return model.Sample{line(0, 0, 1, 1, 6), line(1, 0, 0, 1, 6)}
	case ShapeZigzag:
		s := make(model.Stroke, 0, 9)
		for i := range 9 {
			s = append(s, pt(i, float64(i)/8, float64(i%2)))
		}
		return model.Sample{s}
	default:
		panic(fmt.Sprintf("corpus: unknown shape %q", shape))
	}
}
