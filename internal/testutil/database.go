// Package testutil provides test databases backed by in-memory SQLite.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/Veraticus/inkwell/internal/service"
	"github.com/Veraticus/inkwell/internal/storage"
	"github.com/Veraticus/inkwell/internal/testutil/corpus"
)

// TestDB represents a migrated test database and whatever was seeded into it.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	Corpus  corpus.Corpus
}

// SetupTestDB creates a new, empty, migrated in-memory database. It is
// closed automatically when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SetupTestDBWithCorpus creates a test database seeded through a corpus builder.
//
// Example:
//
//	db := testutil.SetupTestDBWithCorpus(t, func(b *corpus.Builder) *corpus.Builder {
//		return b.WithFixture(corpus.FixtureValidation)
//	})
func SetupTestDBWithCorpus(t *testing.T, configure func(*corpus.Builder) *corpus.Builder) *TestDB {
	t.Helper()

	db := SetupTestDB(t)

	builder := corpus.NewBuilder(t)
	if configure != nil {
		builder = configure(builder)
	}

	c, err := builder.Build(context.Background(), db.Storage)
	if err != nil {
		t.Fatalf("failed to seed corpus: %v", err)
	}
	db.Corpus = c

	return db
}

// WithTransaction executes fn within a transaction that is always rolled back.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	ctx := context.Background()
	tx, err := db.Storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
