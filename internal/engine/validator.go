package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/inkwell/internal/classification"
	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/service"
)

// ValidationOptions configures a cross-validation run.
type ValidationOptions struct {
	Progress       ProgressReporter
	Classification classification.Options
	Folds          int
	MinOccurrences int
}

// CrossValidator measures recognition accuracy with k-fold cross-validation
// over the stored corpus.
type CrossValidator struct {
	reader service.CorpusReader
	runs   RunStore
	now    func() time.Time
	retry  service.RetryOptions
}

// NewCrossValidator creates a validator. runs may be nil, in which case
// reports are returned but not stored.
func NewCrossValidator(reader service.CorpusReader, runs RunStore) *CrossValidator {
	return &CrossValidator{
		reader: reader,
		runs:   runs,
		now:    time.Now,
	}
}

// WithRetry sets the retry policy for corpus loads.
func (v *CrossValidator) WithRetry(retry service.RetryOptions) *CrossValidator {
	v.retry = retry
	return v
}

// foldSample is one held-out sample and the fold it belongs to.
type foldSample struct {
	model.LabeledSample
	fold int
}

// Run performs the validation.
//
// Only symbols with at least MinOccurrences samples take part. Each
// symbol's samples are dealt round-robin into Folds folds; every sample of
// a fold is classified against the samples of all other folds. An empty
// result counts as a miss for both top-1 and top-K accuracy. The reported
// accuracies are the means over folds.
func (v *CrossValidator) Run(ctx context.Context, opts ValidationOptions) (*model.ValidationRun, error) {
	if opts.Folds < 2 {
		return nil, fmt.Errorf("%w: need at least 2 folds, got %d", common.ErrInvalidConfig, opts.Folds)
	}
	if opts.MinOccurrences < opts.Folds {
		opts.MinOccurrences = opts.Folds
	}
	if err := opts.Classification.Validate(); err != nil {
		return nil, err
	}
	progress := opts.Progress
	if progress == nil {
		progress = nopProgress{}
	}

	started := v.now()

	corpus, err := LoadCorpus(ctx, v.reader, v.retry)
	if err != nil {
		return nil, err
	}

	samples, labels := assignFolds(corpus, opts.Folds, opts.MinOccurrences)
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no symbol has %d or more samples", common.ErrNotEnoughData, opts.MinOccurrences)
	}

	slog.Info("Starting cross-validation",
		"symbols", len(labels),
		"samples", len(samples),
		"folds", opts.Folds,
		"mode", opts.Classification.Mode)

	progress.Start(len(samples), "Cross-validating")
	defer progress.Finish()

	folds := make([]model.FoldResult, opts.Folds)
	elapsed := make([]time.Duration, opts.Folds)

	// Folds run concurrently; each classification inside a fold runs inline.
	inner := opts.Classification
	workers := max(1, inner.Workers)
	inner.Workers = 1

	var progressMu sync.Mutex
	tick := func() {
		progressMu.Lock()
		progress.Increment()
		progressMu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for f := range opts.Folds {
		g.Go(func() error {
			res, took, err := validateFold(gctx, samples, f, inner, tick)
			if err != nil {
				return fmt.Errorf("fold %d: %w", f, err)
			}
			folds[f] = res
			elapsed[f] = took
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := summarize(folds, elapsed, len(samples))
	run.ID = uuid.NewString()
	run.StartedAt = started
	run.Mode = string(opts.Classification.Mode)
	run.Epsilon = opts.Classification.Epsilon
	run.Center = opts.Classification.Center
	run.FoldCount = opts.Folds
	run.MinOccurrences = opts.MinOccurrences
	run.TopK = opts.Classification.TopK
	run.Symbols = labels

	slog.Info("Cross-validation finished",
		"run_id", run.ID,
		"top1_accuracy", fmt.Sprintf("%.2f%%", run.Top1Accuracy*100),
		"topk_accuracy", fmt.Sprintf("%.2f%%", run.TopKAccuracy*100),
		"average_time", run.AverageTime)

	if v.runs != nil {
		if err := v.runs.SaveValidationRun(ctx, run); err != nil {
			return run, fmt.Errorf("failed to save validation run: %w", err)
		}
	}
	return run, nil
}

// assignFolds keeps symbols with enough samples and deals each symbol's
// samples round-robin into folds. It returns the labels of the kept symbols.
func assignFolds(corpus *Corpus, folds, minOccurrences int) ([]foldSample, []string) {
	ids, groups := corpus.BySymbol()

	var (
		samples []foldSample
		labels  []string
	)
	for _, id := range ids {
		group := groups[id]
		if len(group) < minOccurrences {
			continue
		}
		labels = append(labels, corpus.Label(id))
		for i, s := range group {
			samples = append(samples, foldSample{LabeledSample: s, fold: i % folds})
		}
	}
	return samples, labels
}

func validateFold(
	ctx context.Context,
	samples []foldSample,
	fold int,
	opts classification.Options,
	tick func(),
) (model.FoldResult, time.Duration, error) {
	result := model.FoldResult{Fold: fold}

	training := make([]model.LabeledSample, 0, len(samples))
	var held []model.LabeledSample
	for _, s := range samples {
		if s.fold == fold {
			held = append(held, s.LabeledSample)
		} else {
			training = append(training, s.LabeledSample)
		}
	}

	var total time.Duration
	for _, s := range held {
		if err := ctx.Err(); err != nil {
			return result, 0, err
		}

		start := time.Now()
		results, err := classifyHeldOut(s, training, opts)
		total += time.Since(start)
		switch {
		case errors.Is(err, common.ErrEmptyInput):
			// Nothing to classify; scored as an empty answer.
			opts.Diagnostics.Warn("held-out sample has no points", common.Fields{
				"dataset_id": s.DatasetID,
				"error":      err.Error(),
			})
			results = nil
		case err != nil:
			return result, 0, err
		}

		score(&result, results, s.FormulaID)
		tick()
	}

	result.Finalize()

	var avg time.Duration
	if len(held) > 0 {
		avg = total / time.Duration(len(held))
	}
	return result, avg, nil
}

func classifyHeldOut(s model.LabeledSample, training []model.LabeledSample, opts classification.Options) (model.ClassificationResults, error) {
	query, err := classification.Prepare(s.Sample, opts.Epsilon, opts.Center)
	if err != nil {
		return nil, fmt.Errorf("held-out sample %d: %w", s.DatasetID, err)
	}
	return classification.Classify(training, query, opts)
}

// score updates the fold counters for one classified sample.
func score(result *model.FoldResult, results model.ClassificationResults, want int64) {
	if len(results) == 0 {
		result.Empty++
		result.Wrong++
		result.TopKMiss++
		return
	}

	if results.Top().FormulaID == want {
		result.Correct++
	} else {
		result.Wrong++
	}

	if results.Contains(want) {
		result.TopKHit++
	} else {
		result.TopKMiss++
	}
}

func summarize(folds []model.FoldResult, elapsed []time.Duration, samples int) *model.ValidationRun {
	run := &model.ValidationRun{
		Folds:       folds,
		SampleCount: samples,
	}

	var top1, topk float64
	var took time.Duration
	for i, f := range folds {
		top1 += f.Accuracy
		topk += f.TopKAccuracy
		took += elapsed[i]
	}

	n := float64(len(folds))
	run.Top1Accuracy = top1 / n
	run.TopKAccuracy = topk / n
	run.AverageTime = took / time.Duration(len(folds))
	return run
}
