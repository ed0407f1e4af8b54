package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/inkwell/internal/classification"
	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/service"
)

// Match is a classification result with its symbol label attached.
type Match struct {
	Label                      string `json:"label" yaml:"label"`
	model.ClassificationResult `yaml:",inline"`
}

// Recognizer classifies drawings against the stored corpus. The corpus is
// loaded on first use and cached until Reload.
type Recognizer struct {
	reader service.CorpusReader
	corpus *Corpus
	retry  service.RetryOptions
	opts   classification.Options
	mu     sync.Mutex
}

// NewRecognizer creates a recognizer reading samples from reader.
func NewRecognizer(reader service.CorpusReader, opts classification.Options) *Recognizer {
	return &Recognizer{
		reader: reader,
		opts:   opts,
	}
}

// WithRetry sets the retry policy for corpus loads.
func (r *Recognizer) WithRetry(retry service.RetryOptions) *Recognizer {
	r.retry = retry
	return r
}

// Corpus returns the cached corpus, loading it if necessary.
func (r *Recognizer) Corpus(ctx context.Context) (*Corpus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.corpus != nil {
		return r.corpus, nil
	}

	corpus, err := LoadCorpus(ctx, r.reader, r.retry)
	if err != nil {
		return nil, err
	}
	r.corpus = corpus
	return corpus, nil
}

// Reload discards the cached corpus.
func (r *Recognizer) Reload(ctx context.Context) error {
	r.mu.Lock()
	r.corpus = nil
	r.mu.Unlock()

	_, err := r.Corpus(ctx)
	return err
}

// Classify ranks the stored symbols against query. The query is simplified,
// flattened and normalized with the recognizer's options first.
func (r *Recognizer) Classify(ctx context.Context, query model.Sample) ([]Match, error) {
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}
	if query.PointCount() == 0 {
		return nil, fmt.Errorf("%w: query has no points", common.ErrEmptyInput)
	}

	corpus, err := r.Corpus(ctx)
	if err != nil {
		return nil, err
	}
	if len(corpus.Samples) == 0 {
		return nil, fmt.Errorf("%w: the corpus is empty", common.ErrNoCandidates)
	}

	prepared, err := classification.Prepare(query, r.opts.Epsilon, r.opts.Center)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results, err := classification.Classify(corpus.Samples, prepared, r.opts)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, len(results))
	for i, res := range results {
		matches[i] = Match{Label: corpus.Label(res.FormulaID), ClassificationResult: res}
	}

	fields := common.Fields{"candidates": len(corpus.Samples), "matches": len(matches)}
	if len(matches) > 0 {
		fields["best"] = matches[0].Label
	}
	common.LogDebug("Classified drawing", fields)

	return matches, nil
}
