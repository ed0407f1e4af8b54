package corpus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/inkwell/internal/service"
	"github.com/Veraticus/inkwell/internal/testutil"
	"github.com/Veraticus/inkwell/internal/testutil/corpus"
)

func TestDraw_Deterministic(t *testing.T) {
	for _, shape := range corpus.Shapes {
		t.Run(string(shape), func(t *testing.T) {
			a := corpus.Draw(shape, 3)
			b := corpus.Draw(shape, 3)
			assert.Equal(t, a, b)
			assert.NotEqual(t, a, corpus.Draw(shape, 4))
			assert.Positive(t, a.PointCount())
		})
	}
}

func TestDraw_UnknownShapePanics(t *testing.T) {
	assert.Panics(t, func() { corpus.Draw("triangle", 0) })
}

func TestBuilder_Build(t *testing.T) {
	db := testutil.SetupTestDBWithCorpus(t, func(b *corpus.Builder) *corpus.Builder {
		return b.WithFixture(corpus.FixtureBasic).WithShape("-", corpus.ShapeHLine, 2)
	})
	ctx := context.Background()

	assert.Len(t, db.Corpus.Symbols, 3)
	assert.Len(t, db.Corpus.Samples["-"], 5)
	assert.Equal(t, 11, db.Corpus.Total())

	samples, err := db.Storage.GetSamples(ctx, service.SampleFilter{SymbolID: db.Corpus.MustSymbol(t, "-")})
	require.NoError(t, err)
	assert.Len(t, samples, 5)
	for _, s := range samples {
		assert.Equal(t, "-", s.Label)
	}
}
