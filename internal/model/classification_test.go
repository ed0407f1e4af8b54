package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates_Sort(t *testing.T) {
	tests := []struct {
		name string
		in   Candidates
		want []int64
	}{
		{
			name: "ascending by distance",
			in:   Candidates{{FormulaID: 1, Distance: 3}, {FormulaID: 2, Distance: 1}, {FormulaID: 3, Distance: 2}},
			want: []int64{2, 3, 1},
		},
		{
			name: "ties broken by formula id",
			in:   Candidates{{FormulaID: 9, Distance: 1}, {FormulaID: 4, Distance: 1}, {FormulaID: 7, Distance: 0.5}},
			want: []int64{7, 4, 9},
		},
		{
			name: "empty",
			in:   Candidates{},
			want: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Sort()
			got := make([]int64, 0, len(tt.in))
			for _, c := range tt.in {
				got = append(got, c.FormulaID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassificationResults_Top(t *testing.T) {
	var empty ClassificationResults
	assert.Nil(t, empty.Top())

	results := ClassificationResults{
		{FormulaID: 1, Probability: 0.2},
		{FormulaID: 2, Probability: 0.7},
		{FormulaID: 3, Probability: 0.1},
	}
	top := results.Top()
	require.NotNil(t, top)
	assert.Equal(t, int64(2), top.FormulaID)
	assert.True(t, results.Contains(3))
	assert.False(t, results.Contains(4))
}

func TestFoldResult_Finalize(t *testing.T) {
	f := FoldResult{Correct: 3, Wrong: 1, TopKHit: 4}
	f.Finalize()
	assert.InDelta(t, 0.75, f.Accuracy, 1e-12)
	assert.InDelta(t, 1.0, f.TopKAccuracy, 1e-12)

	var zero FoldResult
	zero.Finalize()
	assert.Zero(t, zero.Accuracy)
}

func TestSample_Clone(t *testing.T) {
	s := Sample{{Pt(0, 0), Pt(1, 1)}, {Pt(2, 2)}}
	c := s.Clone()
	c[0][0].X = 42
	assert.Equal(t, 0.0, s[0][0].X)
	assert.Equal(t, 3, s.PointCount())
}
