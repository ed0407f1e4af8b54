package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/inkwell/internal/cli"
	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/model"
)

func runsCmd() *cobra.Command {
	var (
		limit  int
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "List stored cross-validation reports",
		Long: `Without arguments, list the most recent validation reports. With a
report id, print that report in full.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var runs []model.ValidationRun
			if len(args) == 1 {
				run, err := store.GetValidationRun(ctx, args[0])
				if errors.Is(err, common.ErrNotFound) {
					return userError(fmt.Sprintf("no validation run %q", args[0]), err)
				}
				if err != nil {
					return err
				}
				runs = []model.ValidationRun{*run}
			} else {
				runs, err = store.GetValidationRuns(ctx, limit)
				if err != nil {
					return fmt.Errorf("failed to list validation runs: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if asYAML {
				enc := yaml.NewEncoder(out)
				defer func() { _ = enc.Close() }()
				if len(args) == 1 {
					return enc.Encode(runs[0])
				}
				return enc.Encode(runs)
			}

			if len(args) == 1 {
				return cli.RenderRun(out, &runs[0])
			}
			return cli.RenderRuns(out, runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of reports to list (0 for all)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")

	return cmd
}
