package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rshade/fscache/internal/cache"
)

// newConfigValidateCmd creates the config validate command. Loading already
// validates, so reaching RunE means the configuration is usable.
func newConfigValidateCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Example: `  # Validate current configuration
  fscache config validate

  # Validate and show effective namespace policies
  fscache config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration is valid")

			if verbose {
				c := a.cfg.Cache
				fmt.Fprintf(out, "cache root: %s\n", c.Directory)
				fmt.Fprintf(out, "default: ttl=%s max_entries=%d\n",
					cache.FormatDuration(c.TTL()), c.DefaultMaxEntries)
				names := make([]string, 0, len(c.Namespaces))
				for name := range c.Namespaces {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					ttl, maxEntries := c.Policy(name)
					fmt.Fprintf(out, "%s: ttl=%s max_entries=%d\n", name, cache.FormatDuration(ttl), maxEntries)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show effective namespace policies")

	return cmd
}
