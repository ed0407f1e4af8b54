package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/inkwell/internal/classification"
	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/testutil"
	"github.com/Veraticus/inkwell/internal/testutil/corpus"
)

func validationDB(t *testing.T) *testutil.TestDB {
	t.Helper()
	return testutil.SetupTestDBWithCorpus(t, func(b *corpus.Builder) *corpus.Builder {
		return b.WithFixture(corpus.FixtureValidation).WithShape("z", corpus.ShapeZigzag, 3)
	})
}

func TestCrossValidator_Run(t *testing.T) {
	db := validationDB(t)
	ctx := context.Background()
	progress := &countingProgress{}

	opts := classification.DefaultOptions()
	opts.TopK = 3

	v := NewCrossValidator(db.Storage, db.Storage)
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return fixed }

	run, err := v.Run(ctx, ValidationOptions{
		Classification: opts,
		Folds:          4,
		MinOccurrences: 10,
		Progress:       progress,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, fixed, run.StartedAt)
	assert.Equal(t, []string{"-", "o", "v", "x", "|"}, run.Symbols)
	assert.Equal(t, 60, run.SampleCount)
	assert.Equal(t, 4, run.FoldCount)
	assert.Equal(t, "dtw", run.Mode)
	require.Len(t, run.Folds, 4)

	for i, f := range run.Folds {
		assert.Equal(t, i, f.Fold)
		assert.Equal(t, 15, f.Correct+f.Wrong)
		assert.Equal(t, 15, f.TopKHit+f.TopKMiss)
	}
	assert.GreaterOrEqual(t, run.Top1Accuracy, 0.9)
	assert.GreaterOrEqual(t, run.TopKAccuracy, run.Top1Accuracy)
	assert.LessOrEqual(t, run.TopKAccuracy, 1.0)

	assert.Equal(t, 60, progress.total)
	assert.Equal(t, 60, progress.increments)
	assert.True(t, progress.finished)

	stored, err := db.Storage.GetValidationRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Folds, stored.Folds)
	assert.Equal(t, run.Symbols, stored.Symbols)
}

func TestCrossValidator_ParallelMatchesSequential(t *testing.T) {
	db := validationDB(t)
	ctx := context.Background()

	run := func(workers int) *model.ValidationRun {
		opts := classification.DefaultOptions()
		opts.Workers = workers
		r, err := NewCrossValidator(db.Storage, nil).Run(ctx, ValidationOptions{
			Classification: opts,
			Folds:          3,
			MinOccurrences: 10,
		})
		require.NoError(t, err)
		return r
	}

	sequential := run(1)
	parallel := run(4)
	assert.Equal(t, sequential.Folds, parallel.Folds)
	assert.InDelta(t, sequential.Top1Accuracy, parallel.Top1Accuracy, 1e-12)
}

func TestCrossValidator_Errors(t *testing.T) {
	db := validationDB(t)
	ctx := context.Background()
	v := NewCrossValidator(db.Storage, nil)

	_, err := v.Run(ctx, ValidationOptions{Classification: classification.DefaultOptions(), Folds: 1})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = v.Run(ctx, ValidationOptions{Classification: classification.DefaultOptions(), Folds: 2, MinOccurrences: 50})
	assert.ErrorIs(t, err, common.ErrNotEnoughData)

	bad := classification.DefaultOptions()
	bad.Threshold = 0
	_, err = v.Run(ctx, ValidationOptions{Classification: bad, Folds: 2})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = v.Run(canceled, ValidationOptions{Classification: classification.DefaultOptions(), Folds: 2, MinOccurrences: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssignFolds_RoundRobin(t *testing.T) {
	c := &Corpus{Labels: map[int64]string{1: "a", 2: "b"}}
	for i := range 5 {
		c.Samples = append(c.Samples, model.LabeledSample{FormulaID: 1, DatasetID: int64(i)})
	}
	c.Samples = append(c.Samples, model.LabeledSample{FormulaID: 2, DatasetID: 99})

	samples, labels := assignFolds(c, 2, 3)
	assert.Equal(t, []string{"a"}, labels)
	require.Len(t, samples, 5)
	for i, s := range samples {
		assert.Equal(t, i%2, s.fold)
	}
}

func TestValidateFold_EmptyHeldOutSample(t *testing.T) {
	line := model.Sample{{model.Pt(0, 0), model.Pt(1, 1), model.Pt(2, 2)}}
	samples := []foldSample{
		{LabeledSample: model.LabeledSample{FormulaID: 1, DatasetID: 1, Sample: line}, fold: 1},
		{LabeledSample: model.LabeledSample{FormulaID: 1, DatasetID: 2, Sample: line}, fold: 0},
		{LabeledSample: model.LabeledSample{FormulaID: 1, DatasetID: 7, Sample: model.Sample{}}, fold: 0},
	}

	diag := common.NewDiagnostics(nil)
	opts := classification.DefaultOptions()
	opts.Diagnostics = diag

	ticks := 0
	result, _, err := validateFold(context.Background(), samples, 0, opts, func() { ticks++ })
	require.NoError(t, err)

	assert.Equal(t, 2, ticks)
	assert.Equal(t, 1, result.Empty)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 1, result.Wrong)
	assert.Equal(t, 1, result.TopKHit)
	assert.Equal(t, 1, result.TopKMiss)

	warnings := diag.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(7), warnings[0].Fields["dataset_id"])
	assert.Contains(t, warnings[0].Fields["error"], "empty input")
}

func TestScore(t *testing.T) {
	var r model.FoldResult

	score(&r, nil, 1)
	assert.Equal(t, model.FoldResult{Empty: 1, Wrong: 1, TopKMiss: 1}, r)

	r = model.FoldResult{}
	score(&r, model.ClassificationResults{{FormulaID: 2, Probability: 0.6}, {FormulaID: 1, Probability: 0.4}}, 1)
	assert.Equal(t, 1, r.Wrong)
	assert.Equal(t, 1, r.TopKHit)

	score(&r, model.ClassificationResults{{FormulaID: 1, Probability: 1}}, 1)
	assert.Equal(t, 1, r.Correct)
	assert.Equal(t, 2, r.TopKHit)

	score(&r, model.ClassificationResults{{FormulaID: 3, Probability: 1}}, 1)
	assert.Equal(t, 1, r.TopKMiss)

	r.Finalize()
	assert.InDelta(t, 1.0/3, r.Accuracy, 1e-9)
	assert.InDelta(t, 2.0/3, r.TopKAccuracy, 1e-9)
}
