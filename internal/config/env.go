package config

import (
	"strconv"
	"time"

	"github.com/rshade/fscache/internal/cache"
)

// Environment variables that override file configuration.
const (
	// EnvCacheDir overrides cache.directory.
	EnvCacheDir = "FSCACHE_DIR"

	// EnvTTL overrides cache.default_ttl (seconds or duration string).
	EnvTTL = "FSCACHE_TTL"

	// EnvMaxEntries overrides cache.default_max_entries.
	EnvMaxEntries = "FSCACHE_MAX_ENTRIES"

	// EnvLogLevel overrides logging.level.
	EnvLogLevel = "FSCACHE_LOG_LEVEL"

	// EnvLogFormat overrides logging.format.
	EnvLogFormat = "FSCACHE_LOG_FORMAT"
)

// LookupEnvFunc matches os.LookupEnv.
type LookupEnvFunc func(string) (string, bool)

// ApplyEnv overrides cfg from the environment. Unparseable or negative
// numeric values are ignored and the file value is kept.
func (c *Config) ApplyEnv(lookupEnv LookupEnvFunc) {
	if lookupEnv == nil {
		return
	}

	if dir, ok := lookupEnv(EnvCacheDir); ok && dir != "" {
		c.Cache.Directory = dir
	}

	if raw, ok := lookupEnv(EnvTTL); ok && raw != "" {
		if ttl, err := cache.ParseTTL(raw); err == nil {
			c.Cache.DefaultTTL = Duration(ttl)
		}
	}

	if raw, ok := lookupEnv(EnvMaxEntries); ok && raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			c.Cache.DefaultMaxEntries = n
		}
	}

	if level, ok := lookupEnv(EnvLogLevel); ok && level != "" {
		c.Logging.Level = level
	}
	if format, ok := lookupEnv(EnvLogFormat); ok && format != "" {
		c.Logging.Format = format
	}
}

// TTL returns the default TTL as a time.Duration.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.DefaultTTL)
}
