package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/ink"
	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/service"
	"github.com/Veraticus/inkwell/internal/storage"
)

// ManifestEntry is one labeled drawing in an import file. Either Strokes or
// Data must be set; Data holds a raw JSON stroke payload.
type ManifestEntry struct {
	Label   string       `json:"label" yaml:"label"`
	Data    string       `json:"data,omitempty" yaml:"data,omitempty"`
	Strokes model.Sample `json:"strokes,omitempty" yaml:"strokes,omitempty"`
}

// Payload returns the stroke payload to store. A payload that does not
// decode or has no points is reported as common.ErrMalformedInput.
func (e ManifestEntry) Payload() ([]byte, error) {
	if strings.TrimSpace(e.Data) == "" {
		if e.Strokes.PointCount() == 0 {
			return nil, fmt.Errorf("%w: entry %q has no strokes", common.ErrMalformedInput, e.Label)
		}
		return ink.EncodeSample(e.Strokes)
	}

	sample, err := ink.ParseSample([]byte(e.Data))
	if err != nil {
		return nil, err
	}
	if sample.PointCount() == 0 {
		return nil, fmt.Errorf("%w: entry %q has no points", common.ErrMalformedInput, e.Label)
	}
	return []byte(e.Data), nil
}

// ParseManifest decodes a YAML or JSON list of manifest entries.
func ParseManifest(data []byte) ([]ManifestEntry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: manifest is empty", common.ErrEmptyInput)
	}

	// JSON is a subset of YAML, so one decoder serves both formats.
	var entries []ManifestEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedInput, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: manifest has no entries", common.ErrEmptyInput)
	}
	return entries, nil
}

// Importer writes manifest entries into the corpus.
type Importer struct {
	store     service.Storage
	snapshots Snapshotter
	retry     service.RetryOptions
}

// NewImporter creates an importer. snapshots may be nil.
func NewImporter(store service.Storage, snapshots Snapshotter) *Importer {
	return &Importer{store: store, snapshots: snapshots}
}

// WithRetry sets the retry policy for starting the import transaction.
func (im *Importer) WithRetry(retry service.RetryOptions) *Importer {
	im.retry = retry
	return im
}

// Import stores entries in a single transaction, creating symbols as needed.
// Duplicate and malformed entries are counted and skipped; any other error
// aborts the import and nothing is written.
func (im *Importer) Import(ctx context.Context, entries []ManifestEntry, progress ProgressReporter) (*service.ImportStats, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: nothing to import", common.ErrEmptyInput)
	}
	if progress == nil {
		progress = nopProgress{}
	}

	start := time.Now()

	if im.snapshots != nil {
		if info, err := im.snapshots.Auto(ctx, "import"); err != nil {
			slog.Warn("Importing without a snapshot", "error", err)
		} else {
			slog.Debug("Snapshot taken before import", "snapshot", info.ID)
		}
	}

	var tx service.Transaction
	err := common.WithRetry(ctx, func() error {
		var err error
		tx, err = im.store.BeginTx(ctx)
		return err
	}, im.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stats := &service.ImportStats{}
	symbols := make(map[string]int64)

	progress.Start(len(entries), "Importing samples")
	defer progress.Finish()

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progress.Increment()

		label := strings.TrimSpace(entry.Label)
		if label == "" {
			stats.Malformed++
			slog.Warn("Skipping manifest entry without a label", "index", i)
			continue
		}

		payload, err := entry.Payload()
		if err != nil {
			stats.Malformed++
			slog.Warn("Skipping malformed manifest entry", "index", i, "label", label, "error", err)
			continue
		}

		symbolID, err := im.symbolID(ctx, tx, symbols, label, stats)
		if err != nil {
			return nil, err
		}

		err = tx.SaveSample(ctx, &model.RawSample{SymbolID: symbolID, Data: payload})
		switch {
		case err == nil:
			stats.SamplesSaved++
		case errors.Is(err, common.ErrDuplicateEntry):
			stats.Duplicates++
		case errors.Is(err, storage.ErrInvalidSample), errors.Is(err, common.ErrMalformedInput):
			stats.Malformed++
			slog.Warn("Skipping malformed manifest entry", "index", i, "label", label, "error", err)
		default:
			common.LogError(err, "Import aborted", common.Fields{"index": i, "label": label})
			return nil, fmt.Errorf("failed to save entry %d (%s): %w", i, label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}
	committed = true

	stats.Duration = time.Since(start)
	slog.Info("Import complete",
		"saved", stats.SamplesSaved,
		"symbols_created", stats.SymbolsCreated,
		"duplicates", stats.Duplicates,
		"malformed", stats.Malformed,
		"duration", stats.Duration)

	return stats, nil
}

func (im *Importer) symbolID(
	ctx context.Context,
	tx service.Transaction,
	cache map[string]int64,
	label string,
	stats *service.ImportStats,
) (int64, error) {
	if id, ok := cache[label]; ok {
		return id, nil
	}

	sym, err := tx.GetSymbolByLabel(ctx, label)
	if errors.Is(err, common.ErrNotFound) {
		sym, err = tx.CreateSymbol(ctx, label)
		if err == nil {
			stats.SymbolsCreated++
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve symbol %q: %w", label, err)
	}

	cache[label] = sym.ID
	return sym.ID, nil
}
