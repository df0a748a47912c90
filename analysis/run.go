package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	// FormatText is the plain text report.
	FormatText = "text"
	// FormatJSON is the JSON report, see Report.
	FormatJSON = "json"

	// StdoutOutput as Output writes the report to the runner writer instead of a file.
	StdoutOutput = "-"

	DefaultExtension  = ".dart"
	DefaultOutput     = "analysis_results.txt"
	DefaultIgnoreFile = ".deadfilesignore"
)

var (
	// DefaultEntryPoints are file names relative to the library root used as traversal roots.
	DefaultEntryPoints = []string{"main.dart", "generated_plugin_registrant.dart"}
	// DefaultBuiltinPrefixes never resolve to a project file.
	DefaultBuiltinPrefixes = []string{"dart:"}
)

type (
	// Runner specify all configuration for running reachability analysis of a library root.
	Runner struct {
		writer    io.Writer
		errWriter io.Writer
		logger    *slog.Logger

		libRoot     string
		packageName string

		// EntryPoints are file names relative to the library root considered traversal roots.
		EntryPoints []string
		// Extension of discovered source files.
		Extension string
		// BuiltinPrefixes of references which are never resolved, like "dart:".
		BuiltinPrefixes []string
		// Exclude holds glob patterns of paths relative to the library root to leave out.
		Exclude []string
		// IgnoreFile is a gitignore-style file, relative paths are resolved against the library root.
		IgnoreFile string
		// Output is the report file path, StdoutOutput writes report into writer.
		Output string
		// Format of the report, FormatText or FormatJSON.
		Format string

		// DebugFlag turns on more verbose output.
		DebugFlag bool
	}

	// Result holds everything one analysis run found out.
	Result struct {
		LibRoot      string
		Files        []string
		Graph        ImportGraph
		Failures     []FileImports
		BytesScanned int64
		Elapsed      time.Duration
		Reachability
	}
)

// New creates runner for analysis of files under libRoot, which belong to Dart package packageName.
// Diagnostics go to errWriter, summary (and report if Output is StdoutOutput) to writer.
func New(writer, errWriter io.Writer, libRoot, packageName string) *Runner {
	return &Runner{
		writer:          writer,
		errWriter:       errWriter,
		libRoot:         libRoot,
		packageName:     packageName,
		EntryPoints:     DefaultEntryPoints,
		Extension:       DefaultExtension,
		BuiltinPrefixes: DefaultBuiltinPrefixes,
		IgnoreFile:      DefaultIgnoreFile,
		Output:          DefaultOutput,
		Format:          FormatText,
	}
}

func (r *Runner) initLogger() {
	level := slog.LevelInfo
	if r.DebugFlag {
		level = slog.LevelDebug
	}
	r.logger = slog.New(slog.NewTextHandler(r.errWriter, &slog.HandlerOptions{Level: level}))
}

func (r *Runner) validate() error {
	if r.libRoot == "" {
		return errors.New("no library root provided")
	}
	if r.packageName == "" {
		return errors.New("no package name provided")
	}
	if r.Format != FormatText && r.Format != FormatJSON {
		return fmt.Errorf("unknown report format: %s", r.Format)
	}
	if r.Output == "" {
		return errors.New("no output provided")
	}
	return nil
}

// Run the analysis, writes the report and prints out summary.
// Unreadable files and missing entry points are only logged, error is returned on invalid configuration
// or when the report cannot be written.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	r.initLogger()
	timeStart := time.Now()

	res := &Result{LibRoot: normalizePath(r.libRoot)}
	r.logger.Debug("Start scanning library root", "root", res.LibRoot, "package", r.packageName)

	var err error
	res.Files, err = DiscoverFiles(ctx, res.LibRoot, DiscoverOptions{
		Extension:  r.Extension,
		Exclude:    r.Exclude,
		IgnoreFile: r.IgnoreFile,
		Logger:     r.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	r.logger.Info("Total files found", "extension", r.Extension, "count", len(res.Files))

	resolver := NewResolver(res.LibRoot, r.packageName, r.BuiltinPrefixes)
	res.Graph, res.Failures = BuildGraph(res.Files, resolver, r.logger)
	for _, f := range res.Files {
		res.BytesScanned += fileSize(f)
	}

	res.Reachability = Traverse(res.Files, res.Graph, r.entryPointPaths(res.LibRoot))
	if res.NoEntryPoints() {
		r.logger.Warn("No entry point found, every file is reported as unused",
			"entry_points", relativePaths(res.LibRoot, res.Missing))
	} else {
		r.logger.Info("Entry points detected", "entry_points", relativePaths(res.LibRoot, res.Entries))
	}
	res.Elapsed = time.Since(timeStart)

	if err := r.writeReport(res); err != nil {
		return nil, err
	}
	r.printSummary(res)
	r.logger.Info("Analysis complete", "output", r.Output, "elapsed", res.Elapsed)
	return res, nil
}

func (r *Runner) entryPointPaths(root string) []string {
	paths := make([]string, 0, len(r.EntryPoints))
	for _, name := range r.EntryPoints {
		if filepath.IsAbs(name) {
			paths = append(paths, filepath.Clean(name))
			continue
		}
		paths = append(paths, filepath.Join(root, filepath.FromSlash(name)))
	}
	return paths
}

func (r *Runner) writeReport(res *Result) error {
	if r.Output == StdoutOutput {
		return r.printReport(r.writer, res)
	}

	f, err := os.Create(r.Output)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := r.printReport(f, res); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

func (r *Runner) printReport(w io.Writer, res *Result) error {
	if r.Format == FormatJSON {
		return printJSON(w, res)
	}
	return printText(w, res)
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
