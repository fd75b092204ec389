// Command fscache inspects and maintains file-backed response caches.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/rshade/fscache/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitMiss  = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	root := cli.NewRootCmd(version)
	root.SetArgs(args)
	return exitCode(root.ExecuteContext(ctx))
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, cli.ErrCacheMiss):
		return exitMiss
	default:
		return exitError
	}
}
