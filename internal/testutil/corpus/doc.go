// Package corpus seeds test databases with synthetic handwritten symbols.
//
// Every shape is drawn procedurally, so a variant index always yields the
// same strokes while different variants differ in scale, position and a
// small deterministic wobble. That makes held-out samples recognizable
// without any two stored payloads being identical.
//
// Example usage:
//
//	db := testutil.SetupTestDBWithCorpus(t, func(b *corpus.Builder) *corpus.Builder {
//		return b.WithFixture(corpus.FixtureBasic).WithShape("z", corpus.ShapeZigzag, 4)
//	})
//
//	lineID := db.Corpus.MustSymbol(t, "-")
package corpus
