// Package config loads cache settings from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/fscache/internal/cache"
)

// ErrInvalidConfig marks configuration values that fail validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultCacheDir is used when no directory is configured.
const DefaultCacheDir = "./cache"

// Log formats.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the top-level configuration.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// CacheConfig defines the cache root and namespace policies.
type CacheConfig struct {
	// Directory is the cache root; each namespace is a subdirectory.
	Directory string `yaml:"directory"`

	// DefaultTTL applies to namespaces without their own ttl.
	DefaultTTL Duration `yaml:"default_ttl"`

	// DefaultMaxEntries applies to namespaces without their own max_entries (0 = unbounded).
	DefaultMaxEntries int `yaml:"default_max_entries"`

	// Namespaces holds per-namespace overrides keyed by namespace name.
	Namespaces map[string]NamespaceConfig `yaml:"namespaces,omitempty"`
}

// NamespaceConfig overrides the defaults for one namespace.
type NamespaceConfig struct {
	TTL        *Duration `yaml:"ttl,omitempty"`
	MaxEntries *int      `yaml:"max_entries,omitempty"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	// Level is a zerolog level name (default: info).
	Level string `yaml:"level"`

	// Format is auto, console or json (default: auto).
	Format string `yaml:"format"`
}

// Duration is a time.Duration that reads integer seconds or Go duration strings.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := cache.ParseTTL(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache:   defaultCacheConfig(),
		Logging: defaultLoggingConfig(),
	}
}

func defaultCacheConfig() CacheConfig {
	return CacheConfig{
		Directory:         DefaultCacheDir,
		DefaultTTL:        Duration(cache.DefaultTTL),
		DefaultMaxEntries: cache.DefaultMaxEntries,
	}
}

func defaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  "info",
		Format: FormatAuto,
	}
}

// Validate checks the configuration for values the cache cannot use.
func (c *Config) Validate() error {
	var errs []error

	if c.Cache.Directory == "" {
		errs = append(errs, fmt.Errorf("%w: cache.directory is empty", ErrInvalidConfig))
	}
	if c.Cache.DefaultTTL < 0 {
		errs = append(errs, fmt.Errorf("%w: cache.default_ttl must be >= 0", ErrInvalidConfig))
	}
	if c.Cache.DefaultMaxEntries < 0 {
		errs = append(errs, fmt.Errorf("%w: cache.default_max_entries must be >= 0", ErrInvalidConfig))
	}

	for name, ns := range c.Cache.Namespaces {
		if _, err := cache.CleanNamespace(name); err != nil {
			errs = append(errs, fmt.Errorf("%w: cache.namespaces: %w", ErrInvalidConfig, err))
		}
		if ns.TTL != nil && *ns.TTL < 0 {
			errs = append(errs, fmt.Errorf("%w: cache.namespaces.%s.ttl must be >= 0", ErrInvalidConfig, name))
		}
		if ns.MaxEntries != nil && *ns.MaxEntries < 0 {
			errs = append(errs, fmt.Errorf("%w: cache.namespaces.%s.max_entries must be >= 0", ErrInvalidConfig, name))
		}
	}

	switch c.Logging.Format {
	case "", FormatAuto, FormatConsole, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Policy returns the effective TTL and capacity for a namespace.
func (c *CacheConfig) Policy(namespace string) (time.Duration, int) {
	ttl := time.Duration(c.DefaultTTL)
	maxEntries := c.DefaultMaxEntries

	ns, ok := c.lookupNamespace(namespace)
	if !ok {
		return ttl, maxEntries
	}
	if ns.TTL != nil {
		ttl = time.Duration(*ns.TTL)
	}
	if ns.MaxEntries != nil {
		maxEntries = *ns.MaxEntries
	}
	return ttl, maxEntries
}

// StoreOptions returns cache options implementing the namespace policy.
func (c *CacheConfig) StoreOptions(namespace string) []cache.Option {
	ttl, maxEntries := c.Policy(namespace)
	return []cache.Option{cache.WithTTL(ttl), cache.WithMaxEntries(maxEntries)}
}

// lookupNamespace finds overrides by cleaned name, so "recipes//search"
// and "recipes/search" share a policy.
func (c *CacheConfig) lookupNamespace(namespace string) (NamespaceConfig, bool) {
	want, err := cache.CleanNamespace(namespace)
	if err != nil {
		return NamespaceConfig{}, false
	}
	for name, ns := range c.Namespaces {
		if clean, cleanErr := cache.CleanNamespace(name); cleanErr == nil && clean == want {
			return ns, true
		}
	}
	return NamespaceConfig{}, false
}
