package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// jsonPayload is the payload type for namespaces read from the CLI; entries
// are shown exactly as stored.
type jsonPayload = json.RawMessage

// ErrCacheMiss is returned by get when no live entry exists. The fscache
// binary exits with status 2 for it.
var ErrCacheMiss = errors.New("cache miss")

// newGetCmd creates the get command.
func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <namespace> <key>",
		Short: "Print a live cache entry's payload",
		Long: `Prints the payload stored under key in namespace.

Missing, corrupt and expired entries are misses and exit non-zero. Reading an
expired entry removes it, exactly as an application read would.`,
		Args: cobra.ExactArgs(2), //nolint:mnd // namespace and key
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openExisting(args[0])
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("%w: %s/%s", ErrCacheMiss, args[0], args[1])
			}

			payload, ok := store.Get(args[1])
			if !ok {
				return fmt.Errorf("%w: %s/%s", ErrCacheMiss, args[0], args[1])
			}

			var out bytes.Buffer
			if indentErr := json.Indent(&out, payload, "", "  "); indentErr != nil {
				out.Reset()
				out.Write(payload)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
}

// newPutCmd creates the put command.
func newPutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put <namespace> <key> <json|->",
		Short: "Store a JSON payload under a key",
		Long: `Stores a JSON payload under key in namespace, evicting the oldest entries
first if the namespace is full. Pass - to read the payload from stdin.`,
		Args: cobra.ExactArgs(3), //nolint:mnd // namespace, key and payload
		RunE: func(cmd *cobra.Command, args []string) error {
			data := []byte(args[2])
			if args[2] == "-" {
				var err error
				if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("reading payload from stdin: %w", err)
				}
			}
			data = bytes.TrimSpace(data)
			if !json.Valid(data) {
				return errors.New("payload is not valid JSON")
			}

			store, err := a.openNamespace(args[0])
			if err != nil {
				return err
			}
			if !store.Available() {
				return fmt.Errorf("cache directory %s is unavailable", store.Dir())
			}

			store.Put(args[1], jsonPayload(data))
			a.logger.Debug().Ctx(cmd.Context()).
				Str("namespace", args[0]).
				Str("key", args[1]).
				Msg("entry stored")
			return nil
		},
	}
}

// newClearCmd creates the clear command.
func newClearCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [namespace...]",
		Short: "Remove every entry in the given namespaces",
		Example: `  fscache clear recipes/search recipes/info
  fscache clear --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if len(args) > 0 {
					return errors.New("--all cannot be combined with namespace arguments")
				}
				return a.root.ClearAll()
			}
			if len(args) == 0 {
				return errors.New("specify at least one namespace or --all")
			}

			for _, name := range args {
				store, err := a.openExisting(name)
				if err != nil {
					return err
				}
				if store != nil {
					store.Clear()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "clear every namespace under the cache root")

	return cmd
}
