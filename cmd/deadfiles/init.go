package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arxeiss/deadfiles/config"
)

func newInitCommand(stdout io.Writer) *cobra.Command {
	var (
		force       bool
		packageName string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write starter " + config.FileName + ".yaml into current directory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := config.Default()
			cfg.PackageName = packageName
			if cfg.PackageName == "" {
				// Not fatal, config can be filled in by hand.
				cfg.PackageName, _ = config.PackageNameFromPubspec(cfg.LibRoot)
			}

			path := config.FileName + ".yaml"
			if err := config.WriteFile(path, cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Config written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")
	cmd.Flags().StringVarP(&packageName, "package", "p", "", "package name (default: name from pubspec.yaml)")
	return cmd
}
