package classification

import (
	"math"

	"github.com/Veraticus/inkwell/internal/model"
)

// Score converts distances into probabilities.
//
// A zero distance is an exact match and wins outright with probability 1;
// among several exact matches the lowest formula id is chosen. Otherwise
// each candidate gets exp(-distance) normalized over the set, and the results
// are ordered by probability, highest first.
func Score(candidates model.Candidates) model.ClassificationResults {
	if len(candidates) == 0 {
		return model.ClassificationResults{}
	}

	exact := -1
	for i, c := range candidates {
		if c.Distance == 0 && (exact < 0 || c.FormulaID < candidates[exact].FormulaID) {
			exact = i
		}
	}
	if exact >= 0 {
		return model.ClassificationResults{{FormulaID: candidates[exact].FormulaID, Probability: 1}}
	}

	// Shifting by the smallest distance leaves the ratios unchanged and keeps
	// the largest weight at exactly 1.
	shift := math.Inf(1)
	for _, c := range candidates {
		shift = min(shift, c.Distance)
	}

	weights := make([]float64, len(candidates))
	var total float64
	for i, c := range candidates {
		weights[i] = math.Exp(-(c.Distance - shift))
		total += weights[i]
	}

	results := make(model.ClassificationResults, len(candidates))
	for i, c := range candidates {
		results[i] = model.ClassificationResult{
			FormulaID:   c.FormulaID,
			Probability: weights[i] / total,
		}
	}
	results.Sort()
	return results
}
