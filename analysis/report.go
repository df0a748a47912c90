package analysis

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Report converts result into its serializable form with paths relative to the library root.
func (res *Result) Report() *Report {
	failures := make([]Failure, 0, len(res.Failures))
	for _, f := range res.Failures {
		failures = append(failures, Failure{
			File:  relativePaths(res.LibRoot, []string{f.Path})[0],
			Error: f.Err.Error(),
		})
	}
	return &Report{
		Total:              len(res.Files),
		Reachable:          len(res.Visited),
		Unused:             len(res.Unused),
		EntryPoints:        relativePaths(res.LibRoot, res.Entries),
		MissingEntryPoints: relativePaths(res.LibRoot, res.Missing),
		UnusedFiles:        relativePaths(res.LibRoot, res.Unused),
		UsedFiles:          relativePaths(res.LibRoot, res.Visited),
		Failures:           failures,
	}
}

func printText(w io.Writer, res *Result) error {
	rep := res.Report()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Total Dart files found: %d\n", rep.Total)
	fmt.Fprintf(bw, "Reachable files: %d\n", rep.Reachable)
	fmt.Fprintf(bw, "Unused files: %d\n\n", rep.Unused)

	fmt.Fprintln(bw, "--- Unused Files ---")
	for _, path := range rep.UnusedFiles {
		fmt.Fprintln(bw, path)
	}

	fmt.Fprintln(bw, "\n--- Used Files ---")
	for _, path := range rep.UsedFiles {
		fmt.Fprintln(bw, path)
	}

	// Everything is unused without entry points, which is rather a configuration problem.
	if res.NoEntryPoints() {
		fmt.Fprintln(bw, "\n--- Warnings ---")
		fmt.Fprintf(bw, "No entry point found (looked for: %s), all files are reported as unused\n",
			strings.Join(rep.MissingEntryPoints, ", "))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	if err := enc.Encode(res.Report()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *Runner) printSummary(res *Result) {
	if r.Output == StdoutOutput {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.writer)
	t.AppendHeader(table.Row{"Files", "Count"})
	t.AppendRows([]table.Row{
		{"Total", humanize.Comma(int64(len(res.Files)))},
		{"Reachable", humanize.Comma(int64(len(res.Visited)))},
		{"Unused", humanize.Comma(int64(len(res.Unused)))},
		{"Unreadable", humanize.Comma(int64(len(res.Failures)))},
	})
	t.AppendFooter(table.Row{"Scanned", humanize.Bytes(uint64(res.BytesScanned))})
	t.Render()

	if res.NoEntryPoints() {
		color.New(color.FgRed).Fprintf(r.writer, "Warning: no entry point found, all %d files are reported as unused\n",
			len(res.Files))
	}
	if len(res.Unused) > 0 {
		color.New(color.FgYellow).Fprintf(r.writer, "Found %d unused files\n", len(res.Unused))
	} else {
		color.New(color.FgGreen).Fprintf(r.writer, "No unused files found\n")
	}
	color.New(color.FgCyan).Fprintf(r.writer, "Results written to %s\n", r.Output)
}
