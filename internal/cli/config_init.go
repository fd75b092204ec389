package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/fscache/internal/config"
)

// newConfigInitCmd creates the config init command for initializing configuration.
// It writes the built-in defaults (with --dir applied) and drops a .gitignore
// into the cache root so cached responses are never committed.
func newConfigInitCmd(a *app) *cobra.Command {
	var (
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Example: `  # Create ./fscache.yaml
  fscache config init

  # Create configuration for a custom cache root, overwriting existing
  fscache config init --dir /var/cache/recipes --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Check if config already exists and force isn't set
			if !force {
				_, err := os.Stat(path)
				if err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !os.IsNotExist(err) {
					return fmt.Errorf("cannot access config path %s: %w", path, err)
				}
			}

			cfg := config.Default()
			cfg.Cache.Directory = a.cfg.Cache.Directory
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			created, err := config.EnsureGitignore(cfg.Cache.Directory)
			if err != nil {
				return fmt.Errorf("failed to create .gitignore: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", path)
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created .gitignore in %s\n", cfg.Cache.Directory)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().StringVar(&path, "path", config.DefaultConfigFile, "where to write the configuration file")

	return cmd
}
