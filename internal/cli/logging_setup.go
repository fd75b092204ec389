package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/fscache/internal/cache"
	"github.com/rshade/fscache/internal/config"
	"github.com/rshade/fscache/internal/logging"
)

// setup loads configuration, applies flag overrides and builds the logger
// and cache root for the command being run.
func (a *app) setup(cmd *cobra.Command, lookupEnv config.LookupEnvFunc) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, []string{config.DefaultConfigFile}, lookupEnv)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.Cache.Directory = dir
	}

	loggingCfg := cfg.Logging
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
	}

	base := logging.New(logging.Config{
		Level:  loggingCfg.Level,
		Format: loggingCfg.Format,
		Out:    cmd.ErrOrStderr(),
	})
	logger, _ := logging.WithRunID(logging.ComponentLogger(base, "cli"))

	a.cfg = cfg
	a.logger = logger
	a.root = cache.NewRoot(cfg.Cache.Directory,
		cache.WithTTL(cfg.Cache.TTL()),
		cache.WithMaxEntries(cfg.Cache.DefaultMaxEntries),
		cache.WithLogger(base),
	)

	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	logger.Debug().
		Ctx(ctx).
		Str("command", cmd.Name()).
		Str("cache_dir", cfg.Cache.Directory).
		Msg("command started")

	return nil
}

// openNamespace opens name with its configured policy.
func (a *app) openNamespace(name string) (*cache.Store[jsonPayload], error) {
	return cache.OpenNamespace[jsonPayload](a.root, name, a.cfg.Cache.StoreOptions(name)...)
}

// openExisting opens name only if its directory already exists, so read-only
// commands never create namespace directories. A missing namespace returns a
// nil store and no error.
func (a *app) openExisting(name string) (*cache.Store[jsonPayload], error) {
	dir, err := a.root.NamespaceDir(name)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(dir); errors.Is(statErr, fs.ErrNotExist) {
		return nil, nil
	}
	return a.openNamespace(name)
}
