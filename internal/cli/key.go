package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/fscache/internal/cache"
)

// newKeyCmd creates the key command, which prints the cache key for a
// parameter tuple.
func newKeyCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "key [params...]",
		Short: "Derive the cache key for an ordered parameter tuple",
		Long: `Derives the cache key for an ordered parameter tuple.

Each argument is read as a JSON literal when it is one: null is an absent
value, 12 is a number, true is a boolean and "null" (quoted) is the string.
Anything else is taken as a plain string. Use --raw to take every argument
as a plain string.`,
		Example: `  # Absent max calories
  fscache key pasta 12 null

  # The literal string "null" gives a different key
  fscache key pasta 12 '"null"'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]any, len(args))
			for i, arg := range args {
				if raw {
					params[i] = arg
					continue
				}
				params[i] = parseParam(arg)
			}

			key, err := cache.DeriveKey(params...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "treat every argument as a plain string")

	return cmd
}

// parseParam converts a command-line argument to a key parameter. Integral
// numbers become int64 so they match keys derived from Go integers.
func parseParam(arg string) any {
	if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return n
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(arg)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return arg
	}

	switch tv := v.(type) {
	case json.Number:
		if f, err := tv.Float64(); err == nil {
			return f
		}
		return arg
	default:
		// nil, bool, string, or an object/array hashed via its JSON form.
		return tv
	}
}
