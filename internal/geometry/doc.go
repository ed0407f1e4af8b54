// Package geometry provides the point primitives shared by the recognition
// pipeline: Euclidean distances, bounding boxes and unit-square
// normalization.
//
// Normalization maps a point sequence into [0,1]×[0,1] using a single
// scaling factor min(1/width, 1/height), so the aspect ratio of the input is
// preserved. A zero width or height is treated as a reciprocal of 1 for that
// axis, which keeps single points and axis-aligned lines finite.
//
// All functions are pure: they never modify their input slices.
package geometry
