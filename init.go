package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/config"
)

const configHeader = `# x4luals configuration.
# Relative paths are resolved against the directory of this file.
# X4LUALS_CORPUS_PATH, X4LUALS_WIKI_URL and X4LUALS_OUTPUT_DIR override the
# matching keys; a .env file in the working directory is loaded first.

`

// newInitCmd implements the `x4luals init` subcommand, which writes the
// default configuration file.
func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		dryRun bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Long: `Write the default x4luals configuration to path (default ./x4luals.toml).
An existing file is left untouched unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			content, err := generateConfig()
			if err != nil {
				return err
			}

			if dryRun {
				_, _ = fmt.Fprint(stdout, content)
				return nil
			}

			path := config.DefaultFile
			if len(args) > 0 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(stderr, "wrote default configuration to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the configuration without writing it")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// generateConfig renders the default configuration with its header.
func generateConfig() (string, error) {
	data, err := config.Encode(config.Default())
	if err != nil {
		return "", fmt.Errorf("encoding configuration: %w", err)
	}
	return configHeader + string(data), nil
}
