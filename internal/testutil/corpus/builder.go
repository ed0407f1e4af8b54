package corpus

import (
	"context"
	"fmt"
	"testing"

	"github.com/Veraticus/inkwell/internal/ink"
	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/service"
)

// Fixture is a predefined set of symbols.
type Fixture []Entry

// Entry requests Count variants of Shape stored under Label.
type Entry struct {
	Label string
	Shape Shape
	Count int
}

// Predefined fixtures.
var (
	// FixtureBasic has three easily separated symbols with three samples each.
	FixtureBasic = Fixture{
		{Label: "-", Shape: ShapeHLine, Count: 3},
		{Label: "|", Shape: ShapeVLine, Count: 3},
		{Label: "o", Shape: ShapeCircle, Count: 3},
	}

	// FixtureValidation is large enough for ten-fold cross-validation.
	FixtureValidation = Fixture{
		{Label: "-", Shape: ShapeHLine, Count: 12},
		{Label: "|", Shape: ShapeVLine, Count: 12},
		{Label: "o", Shape: ShapeCircle, Count: 12},
		{Label: "v", Shape: ShapeVee, Count: 12},
		{Label: "x", Shape: ShapeCross, Count: 12},
	}
)

// Corpus records what a Builder stored.
type Corpus struct {
	Symbols map[string]int64
	Samples map[string][]int64
}

// MustSymbol returns the id of label or fails the test.
func (c Corpus) MustSymbol(t *testing.T, label string) int64 {
	t.Helper()
	id, ok := c.Symbols[label]
	if !ok {
		t.Fatalf("corpus has no symbol %q", label)
	}
	return id
}

// Total returns the number of stored samples.
func (c Corpus) Total() int {
	n := 0
	for _, ids := range c.Samples {
		n += len(ids)
	}
	return n
}

// Builder accumulates symbols to seed.
type Builder struct {
	t       *testing.T
	entries []Entry
}

// NewBuilder creates an empty builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithShape adds count variants of shape under label.
func (b *Builder) WithShape(label string, shape Shape, count int) *Builder {
	b.entries = append(b.entries, Entry{Label: label, Shape: shape, Count: count})
	return b
}

// WithFixture adds every entry of f.
func (b *Builder) WithFixture(f Fixture) *Builder {
	b.entries = append(b.entries, f...)
	return b
}

// Build stores the requested samples. Labels repeated across entries share
// one symbol and keep counting variants.
func (b *Builder) Build(ctx context.Context, store service.CorpusWriter) (Corpus, error) {
	b.t.Helper()

	c := Corpus{
		Symbols: make(map[string]int64),
		Samples: make(map[string][]int64),
	}

	for _, e := range b.entries {
		id, ok := c.Symbols[e.Label]
		if !ok {
			sym, err := store.CreateSymbol(ctx, e.Label)
			if err != nil {
				return Corpus{}, fmt.Errorf("failed to create symbol %q: %w", e.Label, err)
			}
			id = sym.ID
			c.Symbols[e.Label] = id
		}

		offset := len(c.Samples[e.Label])
		for v := range e.Count {
			data, err := ink.EncodeSample(Draw(e.Shape, offset+v))
			if err != nil {
				return Corpus{}, err
			}
			raw := &model.RawSample{SymbolID: id, Data: data}
			if err := store.SaveSample(ctx, raw); err != nil {
				return Corpus{}, fmt.Errorf("failed to save %q sample %d: %w", e.Label, v, err)
			}
			c.Samples[e.Label] = append(c.Samples[e.Label], raw.ID)
		}
	}

	return c, nil
}
