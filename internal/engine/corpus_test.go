package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/service"
)

var fastRetry = service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

func TestLoadCorpus_SkipsMalformed(t *testing.T) {
	reader := &stubReader{samples: []model.RawSample{
		{ID: 1, SymbolID: 7, AcceptedSymbolID: 7, Label: "a", Data: []byte(`[[{"x": 0, "y": 0}, {"x": 1, "y": 1}]]`)},
		{ID: 2, SymbolID: 7, AcceptedSymbolID: 7, Label: "a", Data: []byte(`[[{"x": 0}]]`)},
		{ID: 3, SymbolID: 7, AcceptedSymbolID: 9, Label: "b", Data: []byte(`[[{"x": "2", "y": "3"}]]`)},
		{ID: 4, SymbolID: 9, AcceptedSymbolID: 9, Label: "b", Data: []byte(`not json`)},
	}}

	corpus, err := LoadCorpus(context.Background(), reader, fastRetry)
	require.NoError(t, err)

	assert.Equal(t, 2, corpus.Skipped)
	require.Len(t, corpus.Samples, 2)

	relabeled := corpus.Samples[1]
	assert.Equal(t, int64(9), relabeled.FormulaID)
	assert.Equal(t, int64(9), relabeled.AcceptedFormulaID)
	assert.Equal(t, int64(3), relabeled.DatasetID)
	assert.Equal(t, "b", relabeled.LabelText)
	assert.Equal(t, model.Sample{{model.Pt(2, 3)}}, relabeled.Sample)

	assert.Equal(t, "a", corpus.Label(7))
	assert.Equal(t, "", corpus.Label(100))
}

func TestLoadCorpus_RetriesBusyStorage(t *testing.T) {
	reader := &stubReader{
		err:      common.ErrDatabaseBusy,
		failures: 2,
		samples:  []model.RawSample{{ID: 1, AcceptedSymbolID: 1, Label: "a", Data: []byte(`[[{"x": 0, "y": 0}]]`)}},
	}

	corpus, err := LoadCorpus(context.Background(), reader, fastRetry)
	require.NoError(t, err)
	assert.Len(t, corpus.Samples, 1)
	assert.Equal(t, 3, reader.calls)
}

func TestLoadCorpus_PermanentError(t *testing.T) {
	boom := errors.New("disk on fire")
	reader := &stubReader{err: boom, failures: 10}

	_, err := LoadCorpus(context.Background(), reader, fastRetry)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, reader.calls)
}

func TestCorpus_BySymbol(t *testing.T) {
	corpus := &Corpus{
		Labels: map[int64]string{1: "z", 2: "a"},
		Samples: []model.LabeledSample{
			{FormulaID: 1, DatasetID: 10},
			{FormulaID: 2, DatasetID: 11},
			{FormulaID: 1, DatasetID: 12},
		},
	}

	ids, groups := corpus.BySymbol()
	assert.Equal(t, []int64{2, 1}, ids)
	require.Len(t, groups[1], 2)
	assert.Equal(t, int64(10), groups[1][0].DatasetID)
	assert.Equal(t, int64(12), groups[1][1].DatasetID)
}
