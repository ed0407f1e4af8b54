package classification

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/inkwell/internal/align"
	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
)

// evaluation is the outcome for one labeled sample.
type evaluation struct {
	err       error
	candidate model.Candidate
}

// Classify ranks the labeled samples against query, which must already be
// flattened and normalized (see Prepare).
//
// A labeled sample that cannot be prepared, for example one with no points,
// is left out of the ranking and reported to opts.Diagnostics. An empty
// result list means nothing came closer than opts.Threshold.
func Classify(candidates []model.LabeledSample, query []model.Point, opts Options) (model.ClassificationResults, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: query has no points", common.ErrEmptyInput)
	}

	evaluations := evaluate(candidates, query, opts)

	scored := make(model.Candidates, 0, len(evaluations))
	for i, ev := range evaluations {
		if ev.err != nil {
			opts.Diagnostics.Warn("excluding corpus sample", common.Fields{
				"formula_id": candidates[i].FormulaID,
				"dataset_id": candidates[i].DatasetID,
				"error":      ev.err.Error(),
			})
			continue
		}
		scored = append(scored, ev.candidate)
	}

	return Score(Rank(scored, opts.Threshold, opts.TopK)), nil
}

// evaluate computes one evaluation per labeled sample, in input order.
// Results are written by index so the outcome does not depend on scheduling.
func evaluate(candidates []model.LabeledSample, query []model.Point, opts Options) []evaluation {
	out := make([]evaluation, len(candidates))
	alignOpts := opts.alignOptions()

	run := func(i int) {
		c := candidates[i]
		seq, err := Prepare(c.Sample, opts.Epsilon, opts.Center)
		if err != nil {
			out[i] = evaluation{err: err}
			return
		}
		out[i] = evaluation{candidate: model.Candidate{
			FormulaID: c.FormulaID,
			Distance:  align.Distance(query, seq, alignOpts),
		}}
	}

	if opts.Workers <= 1 || len(candidates) < 2 {
		for i := range candidates {
			run(i)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i := range candidates {
		g.Go(func() error {
			run(i)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Rank sorts candidates by distance, drops those at or above threshold,
// keeps the smallest distance per formula and returns at most topK entries.
// NaN distances never pass the threshold. The input slice is not modified.
func Rank(candidates model.Candidates, threshold float64, topK int) model.Candidates {
	kept := make(model.Candidates, 0, len(candidates))
	for _, c := range candidates {
		if c.Distance < threshold {
			kept = append(kept, c)
		}
	}
	kept.Sort()

	best := make(map[int64]int, len(kept))
	deduped := make(model.Candidates, 0, len(kept))
	for _, c := range kept {
		if idx, seen := best[c.FormulaID]; seen {
			deduped[idx].Distance = min(deduped[idx].Distance, c.Distance)
			continue
		}
		best[c.FormulaID] = len(deduped)
		deduped = append(deduped, c)
	}

	deduped.Sort()
	if len(deduped) > topK {
		deduped = deduped[:topK]
	}
	return deduped
}
