package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/inkwell/internal/cli"
	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/config"
	"github.com/Veraticus/inkwell/internal/engine"
)

var validationFlags = map[string]string{
	"folds":           config.KeyFolds,
	"min-occurrences": config.KeyMinOccurrences,
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Measure recognition accuracy with k-fold cross-validation",
		Long: `Split the corpus into folds and classify every drawing of each fold
against the drawings of all other folds.

Only symbols with at least --min-occurrences drawings take part. The report
shows how often the right symbol came first (top-1) and how often it was
among the reported symbols (top-k). Reports are stored and can be listed
with 'inkwell runs'.`,
		Example: `  # Ten-fold validation with the configured settings
  inkwell validate

  # Compare the greedy aligner on simplified strokes
  inkwell validate --mode greedy --epsilon 2 --workers 4`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(cmd, classificationFlags); err != nil {
				return err
			}
			return bindFlags(cmd, validationFlags)
		},
		RunE: runValidate,
	}

	addClassificationFlags(cmd)
	cmd.Flags().Int("folds", 10, "number of folds")
	cmd.Flags().Int("min-occurrences", 10, "minimum drawings per symbol")
	cmd.Flags().Bool("json", false, "print the report as JSON")
	cmd.Flags().Bool("no-save", false, "do not store the report")

	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	noSave, _ := cmd.Flags().GetBool("no-save")

	opts, err := classificationOptions()
	if err != nil {
		return err
	}
	settings, err := config.ValidationSettings(viper.GetViper())
	if err != nil {
		return userError("invalid validation settings", err)
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := interrupts.HandleInterrupts(cmd.Context(), "Validation", "No report was stored.")
	defer stop()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var runs engine.RunStore
	if !noSave {
		runs = store
	}

	run, err := engine.NewCrossValidator(store, runs).WithRetry(storageRetry).Run(ctx, engine.ValidationOptions{
		Classification: opts,
		Folds:          settings.Folds,
		MinOccurrences: settings.MinOccurrences,
		Progress:       cli.NewProgressBar(cmd.ErrOrStderr()),
	})
	switch {
	case errors.Is(err, context.Canceled) && interrupts.WasInterrupted():
		return nil
	case errors.Is(err, common.ErrNotEnoughData):
		return userError(fmt.Sprintf("no symbol has %d or more drawings", settings.MinOccurrences), err)
	case err != nil && run == nil:
		return fmt.Errorf("validation failed: %w", err)
	case err != nil:
		// The run finished but was not stored.
		cmd.PrintErrln(cli.FormatWarning(err.Error()))
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}
	return cli.RenderRun(out, run)
}
