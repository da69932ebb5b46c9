// x4luals generates LuaLS declaration files for the X4: Foundations UI
// scripting API from the reference wiki page and the game's Lua sources.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/config"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/pipeline"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type generateFlags struct {
	configPath         string
	useFragments       bool
	skipFragmentExport bool
	noLua              bool
	noFFI              bool
	noHelper           bool
	noUndocumented     bool
	noGlobalAccess     bool
	offline            bool
	verbose            bool
}

func (f *generateFlags) options() pipeline.Options {
	return pipeline.Options{
		UseFragments:       f.useFragments,
		SkipFragmentExport: f.skipFragmentExport,
		Offline:            f.offline,
		Lua:                !f.noLua,
		FFI:                !f.noFFI,
		Helper:             !f.noHelper,
		Undocumented:       !f.noUndocumented,
		Exposed:            !f.noGlobalAccess,
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "x4luals",
		Short: "Generate LuaLS annotations for the X4: Foundations Lua API",
		Long: `x4luals builds LuaLS "---@meta" declaration files for the X4: Foundations
UI scripting API. Documented functions come from the community wiki page;
FFI declarations, Helper functions, AddGlobalAccess exposures and
undocumented functions are extracted from the game's Lua sources.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generate(cmd.Context(), &flags, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("x4luals {{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", config.DefaultFile, "configuration file")
	f.BoolVar(&flags.useFragments, "use-fragments", false, "load previously exported hjson fragments instead of re-extracting")
	f.BoolVar(&flags.skipFragmentExport, "skip-fragment-export", false, "do not export hjson fragments")
	f.BoolVar(&flags.noLua, "no-lua", false, "skip the documented Lua API")
	f.BoolVar(&flags.noFFI, "no-ffi", false, "skip FFI functions and types")
	f.BoolVar(&flags.noHelper, "no-helper", false, "skip Helper functions")
	f.BoolVar(&flags.noUndocumented, "no-undocumented", false, "skip undocumented function inference")
	f.BoolVar(&flags.noGlobalAccess, "no-global-access", false, "skip AddGlobalAccess exposures")
	f.BoolVar(&flags.offline, "offline", false, "do not fetch the wiki page, use the local copy")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newInitCmd(stdout, stderr))
	return cmd
}

func generate(ctx context.Context, flags *generateFlags, stderr io.Writer) error {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if cfg.Path == "" {
		logger.Warn("configuration file not found, using defaults", "path", flags.configPath)
	} else {
		logger.Debug("loaded configuration", "path", cfg.Path)
	}

	runner := &pipeline.Runner{
		Config:  cfg,
		Options: flags.options(),
		Logger:  logger,
	}
	_, err = runner.Run(ctx)
	return err
}
