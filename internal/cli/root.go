package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/fscache/internal/cache"
	"github.com/rshade/fscache/internal/config"
)

// app carries the state built once per invocation by PersistentPreRunE.
type app struct {
	cfg    *config.Config
	root   *cache.Root
	logger zerolog.Logger
}

// NewRootCmd creates the root Cobra command for the fscache CLI.
// It wires up configuration, logging, and the key, get, put, clear, stat
// and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv config.LookupEnvFunc) *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "fscache",
		Short:         "Inspect and maintain file-backed response caches",
		Long:          "fscache: derive cache keys and inspect, fill or clear namespace directories of a file-backed cache",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, lookupEnv)
		},
	}

	cmd.PersistentFlags().String("config", "", "path to a YAML config file (default: ./fscache.yaml if present)")
	cmd.PersistentFlags().String("dir", "", "cache root directory (overrides config file and FSCACHE_DIR)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(
		newKeyCmd(),
		newGetCmd(a),
		newPutCmd(a),
		newClearCmd(a),
		newStatCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

const rootCmdExample = `  # Derive the key for a recipe search (absent values as null)
  fscache key pasta 12 null

  # Show a cached entry
  fscache get recipes/search 3f2a...

  # Store a payload by hand
  fscache put recipes/info 9c1e... '{"id": 715538, "title": "Bruschetta"}'

  # Entry counts per namespace
  fscache stat

  # Clear one namespace, or everything
  fscache clear recipes/search
  fscache clear --all

  # Write a default config file
  fscache config init`

// newConfigCmd groups configuration subcommands.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage fscache configuration",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigValidateCmd(a))
	return cmd
}
