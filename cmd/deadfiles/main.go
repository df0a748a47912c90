package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arxeiss/deadfiles/analysis"
	"github.com/arxeiss/deadfiles/config"

	_ "embed"
)

var (
	//go:embed doc.go
	doc string

	// Version is set during build.
	Version = "dev"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "deadfiles [flags] [path/to/lib]",
		Short:         "Report Dart files unreachable from entry points",
		Long:          usage(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("lib-root", args[0]); err != nil {
					return err
				}
			}
			cfg, err := config.LoadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}

			runner := analysis.New(stdout, stderr, cfg.LibRoot, cfg.PackageName)
			cfg.Apply(runner)
			_, err = runner.Run(cmd.Context())
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to config file (default: "+config.FileName+".yaml in . or $HOME)")
	flags.String("lib-root", "", "root directory of Dart sources (default: "+config.DefaultLibRoot+")")
	flags.StringP("package", "p", "", "package name used in package: imports (default: name from pubspec.yaml)")
	flags.StringSliceP("entry", "e", nil,
		"entry point file relative to lib root, repeatable (default: "+strings.Join(analysis.DefaultEntryPoints, ",")+")")
	flags.String("ext", "",
		"source file extension, the text report header still reads \"Dart files\" (default: "+analysis.DefaultExtension+")")
	flags.StringSlice("builtin-prefix", nil,
		"prefix of built-in library references, repeatable (default: "+strings.Join(analysis.DefaultBuiltinPrefixes, ",")+")")
	flags.StringSlice("exclude", nil, "glob of paths relative to lib root to leave out, repeatable")
	flags.String("ignore-file", "", "gitignore-style file inside lib root (default: "+analysis.DefaultIgnoreFile+")")
	flags.StringP("output", "o", "",
		"report file, "+analysis.StdoutOutput+" for stdout (default: "+analysis.DefaultOutput+")")
	flags.String("format", "", "report format: text or json (default: text)")
	flags.Bool("debug", false, "enable debug output")

	cmd.AddCommand(newInitCommand(stdout), newVersionCommand(stdout))
	return cmd
}

func usage() string {
	// Extract the content of the /* ... */ comment in doc.go.
	_, after, _ := strings.Cut(doc, "/*\n")
	text, _, _ := strings.Cut(after, "*/")
	return text
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(stdout, "deadfiles %s\n", Version)
		},
	}
}
