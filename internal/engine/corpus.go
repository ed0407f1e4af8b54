package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/ink"
	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/service"
)

// Corpus is the parsed, labeled training set.
type Corpus struct {
	Labels  map[int64]string
	Samples []model.LabeledSample
	Skipped int
}

// Label returns the label of formulaID, or "" if unknown.
func (c *Corpus) Label(formulaID int64) string {
	return c.Labels[formulaID]
}

// BySymbol groups samples by formula, keeping storage order inside each
// group. Formulas are returned sorted by label.
func (c *Corpus) BySymbol() ([]int64, map[int64][]model.LabeledSample) {
	groups := make(map[int64][]model.LabeledSample)
	for _, s := range c.Samples {
		groups[s.FormulaID] = append(groups[s.FormulaID], s)
	}

	ids := make([]int64, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		li, lj := c.Labels[ids[i]], c.Labels[ids[j]]
		if li != lj {
			return li < lj
		}
		return ids[i] < ids[j]
	})
	return ids, groups
}

// LoadCorpus reads every stored sample and decodes its strokes. Samples
// whose payload does not decode are logged and skipped.
func LoadCorpus(ctx context.Context, reader service.CorpusReader, retry service.RetryOptions) (*Corpus, error) {
	var raw []model.RawSample
	err := common.WithRetry(ctx, func() error {
		var err error
		raw, err = reader.GetSamples(ctx, service.SampleFilter{})
		return err
	}, retry)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	corpus := &Corpus{
		Labels:  make(map[int64]string),
		Samples: make([]model.LabeledSample, 0, len(raw)),
	}

	for _, r := range raw {
		sample, err := ink.ParseSample(r.Data)
		if err != nil {
			corpus.Skipped++
			slog.Warn("Skipping malformed corpus sample",
				"sample_id", r.ID,
				"label", r.Label,
				"error", err)
			continue
		}

		corpus.Labels[r.AcceptedSymbolID] = r.Label
		corpus.Samples = append(corpus.Samples, model.LabeledSample{
			LabelText:         r.Label,
			Sample:            sample,
			FormulaID:         r.AcceptedSymbolID,
			AcceptedFormulaID: r.AcceptedSymbolID,
			DatasetID:         r.ID,
		})
	}

	slog.Debug("Loaded corpus",
		"samples", len(corpus.Samples),
		"symbols", len(corpus.Labels),
		"skipped", corpus.Skipped)

	return corpus, nil
}
