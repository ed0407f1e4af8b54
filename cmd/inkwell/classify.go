package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/inkwell/internal/cli"
	"github.com/Veraticus/inkwell/internal/common"
	"github.com/Veraticus/inkwell/internal/engine"
	"github.com/Veraticus/inkwell/internal/ink"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Recognize a drawing",
		Long: `Compare a drawing with every sample in the corpus and print the most
likely symbols.

The drawing is a JSON list of strokes, each a list of {"x", "y", "time"}
points. It is read from the given file, or from standard input when the
argument is "-" or omitted.`,
		Example: `  # Classify a drawing stored in a file
  inkwell classify query.json

  # Pipe a drawing in and get machine-readable output
  cat query.json | inkwell classify --json

  # Faster, approximate matching on simplified strokes
  inkwell classify --mode greedy --epsilon 2 query.json`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, classificationFlags)
		},
		RunE: runClassify,
	}

	addClassificationFlags(cmd)
	cmd.Flags().Bool("json", false, "print results as JSON")
	cmd.Flags().Bool("svg", false, "also print the drawing as an SVG path")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	asJSON, _ := cmd.Flags().GetBool("json")
	showSVG, _ := cmd.Flags().GetBool("svg")

	opts, err := classificationOptions()
	if err != nil {
		return err
	}

	data, err := readQuery(cmd, args)
	if err != nil {
		return err
	}

	query, err := ink.ParseSample(data)
	if err != nil {
		return userError("could not read the drawing", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	recognizer := engine.NewRecognizer(store, opts).WithRetry(storageRetry)
	matches, err := recognizer.Classify(ctx, query)
	switch {
	case errors.Is(err, common.ErrEmptyInput):
		return userError("the drawing has no points", err)
	case errors.Is(err, common.ErrNoCandidates):
		return userError("the corpus is empty; import some drawings first", err)
	case err != nil:
		return fmt.Errorf("classification failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if matches == nil {
			matches = []engine.Match{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if showSVG {
		fmt.Fprintf(out, "%s %s\n\n", cli.SubtleStyle.Render("path:"), ink.SVGPath(query))
	}
	return cli.RenderMatches(out, matches)
}

func readQuery(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := cli.ReadAll(cmd.Context(), cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil
	}

	// #nosec G304 - the user chooses which drawing to classify
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, userError("could not open the drawing", err)
	}
	return data, nil
}
