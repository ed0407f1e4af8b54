// Package ink decodes and encodes raw pen stroke payloads.
//
// The wire format is a JSON array of strokes, each an array of point
// objects:
//
//	[[{"x": 10, "y": 20, "time": 1400000000}, ...], ...]
//
// Coordinates may be JSON numbers or numeric strings; older corpora stored
// them stringified. "time" is optional. A point without "x" or "y" makes the
// whole payload malformed.
package ink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
)

// number accepts both 12.5 and "12.5". NaN and infinities are rejected.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("%w: invalid number %s", common.ErrMalformedInput, data)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: non-finite number %s", common.ErrMalformedInput, data)
	}
	*n = number(f)
	return nil
}

type wirePoint struct {
	X    *number `json:"x"`
	Y    *number `json:"y"`
	Time *number `json:"time"`
}

// ParseSample decodes a raw stroke payload. Stroke and point order are kept.
func ParseSample(data []byte) (model.Sample, error) {
	var strokes [][]wirePoint
	if err := json.Unmarshal(data, &strokes); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedInput, err)
	}

	sample := make(model.Sample, 0, len(strokes))
	for i, wire := range strokes {
		stroke := make(model.Stroke, 0, len(wire))
		for j, wp := range wire {
			if wp.X == nil || wp.Y == nil {
				return nil, fmt.Errorf("%w: stroke %d point %d is missing x or y", common.ErrMalformedInput, i, j)
			}
			p := model.Point{X: float64(*wp.X), Y: float64(*wp.Y)}
			if wp.Time != nil {
				t := float64(*wp.Time)
				p.Time = &t
			}
			stroke = append(stroke, p)
		}
		sample = append(sample, stroke)
	}
	return sample, nil
}

// EncodeSample produces the canonical JSON payload for sample.
func EncodeSample(sample model.Sample) ([]byte, error) {
	out := make(model.Sample, len(sample))
	for i, stroke := range sample {
		if stroke == nil {
			stroke = model.Stroke{}
		}
		out[i] = stroke
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sample: %w", err)
	}
	return data, nil
}

// Flatten concatenates all strokes into one ordered point sequence.
func Flatten(sample model.Sample) []model.Point {
	out := make([]model.Point, 0, sample.PointCount())
	for _, stroke := range sample {
		out = append(out, stroke...)
	}
	return out
}

// SVGPath renders sample as an SVG path using one move-to per stroke.
func SVGPath(sample model.Sample) string {
	var b strings.Builder
	for _, stroke := range sample {
		for i, p := range stroke {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(cmd)
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(p.X, 'g', -1, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(p.Y, 'g', -1, 64))
		}
	}
	return b.String()
}
