// Package model defines the core domain models used throughout the application.
package model

// Point is a single pen sample. Time is advisory and ignored by geometry.
type Point struct {
	Time *float64 `json:"time,omitempty" yaml:"time,omitempty"`
	X    float64  `json:"x" yaml:"x"`
	Y    float64  `json:"y" yaml:"y"`
}

// Pt is shorthand for an untimed point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Stroke is one continuous pen-down segment in temporal order.
type Stroke []Point

// Sample is one drawn symbol instance made of ordered strokes.
type Sample []Stroke

// PointCount returns the total number of points over all strokes.
func (s Sample) PointCount() int {
	n := 0
	for _, stroke := range s {
		n += len(stroke)
	}
	return n
}

// Clone returns a deep copy of the sample so transformations never alias
// the caller's buffers.
func (s Sample) Clone() Sample {
	out := make(Sample, len(s))
	for i, stroke := range s {
		out[i] = append(Stroke(nil), stroke...)
	}
	return out
}

// BoundingBox is the minimal axis-aligned box around a point sequence.
type BoundingBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Width returns MaxX - MinX.
func (b BoundingBox) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns MaxY - MinY.
func (b BoundingBox) Height() float64 {
	return b.MaxY - b.MinY
}
