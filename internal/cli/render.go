package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/inkwell/internal/engine"
	"github.com/Veraticus/inkwell/internal/model"
	"github.com/Veraticus/inkwell/internal/service"
	"github.com/Veraticus/inkwell/internal/storage"
)

const barWidth = 20

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func header(tw *tabwriter.Writer, columns ...string) {
	styled := make([]string, len(columns))
	rules := make([]string, len(columns))
	for i, c := range columns {
		styled[i] = TableHeaderStyle.Render(c)
		rules[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(tw, strings.Join(styled, "\t"))
	fmt.Fprintln(tw, strings.Join(rules, "\t"))
}

// bar draws a horizontal bar for a value in [0, 1].
func bar(v float64) string {
	n := int(v*barWidth + 0.5)
	n = max(0, min(barWidth, n))
	return BarStyle.Render(strings.Repeat("█", n)) + SubtleStyle.Render(strings.Repeat("░", barWidth-n))
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// RenderMatches prints ranked recognition results.
func RenderMatches(w io.Writer, matches []engine.Match) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, FormatWarning("No symbol came close enough to the drawing."))
		return err
	}

	tw := newTable(w)
	header(tw, "#", "Symbol", "ID", "Probability", "")
	for i, m := range matches {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", i+1, BoldStyle.Render(m.Label), m.FormulaID, percent(m.Probability), bar(m.Probability))
	}
	return tw.Flush()
}

// RenderSymbolCounts prints the symbols of the corpus with their sample counts.
func RenderSymbolCounts(w io.Writer, counts []model.SymbolCount) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("The corpus is empty. Add drawings with: inkwell import <manifest>"))
		return err
	}

	tw := newTable(w)
	header(tw, "ID", "Symbol", "Samples", "Created")
	total := 0
	for _, c := range counts {
		total += c.Samples
		samples := fmt.Sprint(c.Samples)
		if c.Samples == 0 {
			samples = SubtleStyle.Render("0")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.Symbol.ID, c.Symbol.Label, samples, c.Symbol.CreatedAt.Format(time.DateOnly))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", SubtleStyle.Render(fmt.Sprintf("%d symbols, %d samples", len(counts), total)))
	return err
}

// RenderRun prints a cross-validation report with per-fold details.
func RenderRun(w io.Writer, run *model.ValidationRun) error {
	summary := strings.Join([]string{
		fmt.Sprintf("Run:          %s", run.ID),
		fmt.Sprintf("Started:      %s", run.StartedAt.Format(time.DateTime)),
		fmt.Sprintf("Mode:         %s (epsilon %g, center %t)", run.Mode, run.Epsilon, run.Center),
		fmt.Sprintf("Corpus:       %d samples of %d symbols", run.SampleCount, len(run.Symbols)),
		fmt.Sprintf("Top-1:        %s %s", percent(run.Top1Accuracy), bar(run.Top1Accuracy)),
		fmt.Sprintf("%-14s%s %s", fmt.Sprintf("Top-%d:", run.TopK), percent(run.TopKAccuracy), bar(run.TopKAccuracy)),
		fmt.Sprintf("Average time: %s per drawing", run.AverageTime.Round(time.Microsecond)),
	}, "\n")

	if _, err := fmt.Fprintln(w, RenderBox(ChartIcon+" Cross-validation", summary)); err != nil {
		return err
	}

	tw := newTable(w)
	header(tw, "Fold", "Correct", "Wrong", "Empty", "Top-1", fmt.Sprintf("Top-%d", run.TopK))
	for _, f := range run.Folds {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\n", f.Fold+1, f.Correct, f.Wrong, f.Empty, percent(f.Accuracy), percent(f.TopKAccuracy))
	}
	return tw.Flush()
}

// RenderRuns prints stored cross-validation reports, newest first.
func RenderRuns(w io.Writer, runs []model.ValidationRun) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No validation runs yet. Start one with: inkwell validate"))
		return err
	}

	tw := newTable(w)
	header(tw, "ID", "Started", "Mode", "Folds", "Samples", "Top-1", "Top-K")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Mode, r.FoldCount, r.SampleCount,
			percent(r.Top1Accuracy), percent(r.TopKAccuracy))
	}
	return tw.Flush()
}

// RenderImportStats prints the outcome of an import.
func RenderImportStats(w io.Writer, stats *service.ImportStats) error {
	lines := []string{
		FormatSuccess(fmt.Sprintf("Imported %d samples in %s", stats.SamplesSaved, stats.Duration.Round(time.Millisecond))),
	}
	if stats.SymbolsCreated > 0 {
		lines = append(lines, FormatInfo(fmt.Sprintf("%d new symbols", stats.SymbolsCreated)))
	}
	if stats.Duplicates > 0 {
		lines = append(lines, FormatInfo(fmt.Sprintf("%d duplicates skipped", stats.Duplicates)))
	}
	if stats.Malformed > 0 {
		lines = append(lines, FormatWarning(fmt.Sprintf("%d malformed entries skipped", stats.Malformed)))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// RenderSnapshots prints the available snapshots.
func RenderSnapshots(w io.Writer, snapshots []storage.SnapshotInfo) error {
	if len(snapshots) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No snapshots yet. Create one with: inkwell snapshot create"))
		return err
	}

	tw := newTable(w)
	header(tw, "ID", "Created", "Symbols", "Samples", "Size", "Description")
	for _, s := range snapshots {
		desc := s.Description
		if s.IsAuto {
			desc = SubtleStyle.Render(desc)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			s.ID, s.CreatedAt.Format(time.DateTime), s.Symbols, s.Samples, formatBytes(s.FileSize), desc)
	}
	return tw.Flush()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
