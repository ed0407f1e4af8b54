package model

import "sort"

// Candidate is the alignment outcome for a single corpus entry.
type Candidate struct {
	FormulaID int64
	Distance  float64
}

// ClassificationResult is one ranked answer returned to callers.
type ClassificationResult struct {
	FormulaID   int64   `json:"formula_id" yaml:"formula_id"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// Candidates is a slice of Candidate that sorts ascending by distance.
type Candidates []Candidate

// Len implements sort.Interface.
func (c Candidates) Len() int {
	return len(c)
}

// Less implements sort.Interface - smaller distances come first.
func (c Candidates) Less(i, j int) bool {
	if c[i].Distance != c[j].Distance {
		return c[i].Distance < c[j].Distance
	}
	// Equal distances fall back to the id so parallel runs rank identically
	return c[i].FormulaID < c[j].FormulaID
}

// Swap implements sort.Interface.
func (c Candidates) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}

// Sort sorts the candidates by distance in ascending order.
func (c Candidates) Sort() {
	sort.Stable(c)
}

// ClassificationResults is a ranked list of answers, best first.
type ClassificationResults []ClassificationResult

// Len implements sort.Interface.
func (r ClassificationResults) Len() int {
	return len(r)
}

// Less implements sort.Interface - higher probabilities come first.
func (r ClassificationResults) Less(i, j int) bool {
	if r[i].Probability != r[j].Probability {
		return r[i].Probability > r[j].Probability
	}
	return r[i].FormulaID < r[j].FormulaID
}

// Swap implements sort.Interface.
func (r ClassificationResults) Swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}

// Sort sorts the results by probability in descending order.
func (r ClassificationResults) Sort() {
	sort.Stable(r)
}

// Top returns the most probable result, or nil if empty.
func (r ClassificationResults) Top() *ClassificationResult {
	if len(r) == 0 {
		return nil
	}
	r.Sort()
	return &r[0]
}

// Contains reports whether formulaID appears anywhere in the results.
func (r ClassificationResults) Contains(formulaID int64) bool {
	for _, res := range r {
		if res.FormulaID == formulaID {
			return true
		}
	}
	return false
}
