package classification

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/inkwell/internal/model"
)

func TestScore(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Score(nil))
	})

	t.Run("exact match wins outright", func(t *testing.T) {
		results := Score(model.Candidates{{FormulaID: 4, Distance: 1.5}, {FormulaID: 9, Distance: 0}})
		assert.Equal(t, model.ClassificationResults{{FormulaID: 9, Probability: 1}}, results)
	})

	t.Run("exact ties pick lowest formula id", func(t *testing.T) {
		results := Score(model.Candidates{{FormulaID: 12, Distance: 0}, {FormulaID: 3, Distance: 0}, {FormulaID: 7, Distance: 0}})
		assert.Equal(t, model.ClassificationResults{{FormulaID: 3, Probability: 1}}, results)
	})

	t.Run("softmax over negative distance", func(t *testing.T) {
		results := Score(model.Candidates{{FormulaID: 2, Distance: 2}, {FormulaID: 1, Distance: 1}})
		require.Len(t, results, 2)

		want := 1 / (1 + math.Exp(-1))
		assert.Equal(t, int64(1), results[0].FormulaID)
		assert.InDelta(t, want, results[0].Probability, 1e-12)
		assert.Equal(t, int64(2), results[1].FormulaID)
		assert.InDelta(t, 1-want, results[1].Probability, 1e-12)
	})

	t.Run("probabilities sum to one", func(t *testing.T) {
		candidates := model.Candidates{}
		for i := 1; i <= 10; i++ {
			candidates = append(candidates, model.Candidate{FormulaID: int64(i), Distance: float64(i) * 1.7})
		}
		results := Score(candidates)
		require.Len(t, results, 10)

		var sum float64
		for i, r := range results {
			sum += r.Probability
			if i > 0 {
				assert.GreaterOrEqual(t, results[i-1].Probability, r.Probability)
			}
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("large distances stay finite", func(t *testing.T) {
		results := Score(model.Candidates{{FormulaID: 1, Distance: 900}, {FormulaID: 2, Distance: 901}})
		require.Len(t, results, 2)
		assert.False(t, math.IsNaN(results[0].Probability))
		assert.InDelta(t, 1/(1+math.Exp(-1)), results[0].Probability, 1e-12)
	})
}
