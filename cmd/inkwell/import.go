package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/inkwell/internal/cli"
	"github.com/Veraticus/inkwell/internal/engine"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <manifest>",
		Short: "Add labeled drawings to the corpus",
		Long: `Import labeled drawings from a YAML or JSON manifest.

Each entry names its symbol and carries the drawing either as strokes or as
a raw JSON payload in "data":

  - label: '\alpha'
    strokes:
      - [{x: 10, y: 20}, {x: 12, y: 24}]
  - label: '\beta'
    data: '[[{"x": 1, "y": 2}]]'

Symbols are created as needed. Drawings already stored for the same symbol
are skipped. A snapshot is taken first so an import can be undone with
'inkwell snapshot restore'.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("no-snapshot", false, "skip the automatic snapshot")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	noSnapshot, _ := cmd.Flags().GetBool("no-snapshot")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	// #nosec G304 - the user chooses which manifest to import
	data, err := os.ReadFile(args[0])
	if err != nil {
		return userError("could not open the manifest", err)
	}

	entries, err := engine.ParseManifest(data)
	if err != nil {
		return userError("could not read the manifest", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var snapshots engine.Snapshotter
	if !noSnapshot {
		mgr, err := store.Snapshots()
		if err != nil {
			slog.Warn("Snapshots unavailable", "error", err)
		} else {
			snapshots = mgr
		}
	}

	var progress engine.ProgressReporter
	if !noProgress {
		progress = cli.NewProgressBar(cmd.ErrOrStderr())
	}

	stats, err := engine.NewImporter(store, snapshots).WithRetry(storageRetry).Import(ctx, entries, progress)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	return cli.RenderImportStats(cmd.OutOrStdout(), stats)
}
