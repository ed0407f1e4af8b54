package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/inkwell/internal/cli"
	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/ink"
	"github.com/Veraticus/inkwell/internal/service"
)

func symbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "Inspect the symbols in the corpus",
		Example: `  # List every symbol with its sample count
  inkwell symbols list

  # Show the stored drawings of one symbol as SVG paths
  inkwell symbols show '\alpha'

  # Remove a symbol and all of its drawings
  inkwell symbols delete '\alpha'`,
	}

	cmd.AddCommand(listSymbolsCmd())
	cmd.AddCommand(showSymbolCmd())
	cmd.AddCommand(deleteSymbolCmd())

	return cmd
}

func listSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List symbols with their sample counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			counts, err := store.GetSymbolCounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to list symbols: %w", err)
			}
			return cli.RenderSymbolCounts(cmd.OutOrStdout(), counts)
		},
	}
}

func showSymbolCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show <label>",
		Short: "Print the stored drawings of a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sym, err := store.GetSymbolByLabel(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return userError(fmt.Sprintf("no symbol %q in the corpus", args[0]), err)
			}
			if err != nil {
				return err
			}

			samples, err := store.GetSamples(ctx, service.SampleFilter{SymbolID: sym.ID, Limit: limit})
			if err != nil {
				return fmt.Errorf("failed to load samples: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s (id %d)", sym.Label, sym.ID)))
			for _, s := range samples {
				printSamplePath(out, s.ID, s.Data)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of drawings to print (0 for all)")

	return cmd
}

func printSamplePath(w io.Writer, id int64, data []byte) {
	sample, err := ink.ParseSample(data)
	if err != nil {
		fmt.Fprintf(w, "%d\t%s\n", id, cli.FormatWarning(err.Error()))
		return
	}
	fmt.Fprintf(w, "%d\t%s\n", id, ink.SVGPath(sample))
}

func deleteSymbolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <label>",
		Short: "Delete a symbol and its drawings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sym, err := store.GetSymbolByLabel(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return userError(fmt.Sprintf("no symbol %q in the corpus", args[0]), err)
			}
			if err != nil {
				return err
			}

			if err := store.DeleteSymbol(ctx, sym.ID); err != nil {
				return fmt.Errorf("failed to delete symbol: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %s", sym.Label)))
			return nil
		},
	}
}
