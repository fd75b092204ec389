package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fscache/internal/cache"
	"github.com/rshade/fscache/internal/config"
)

// envMap returns a LookupEnvFunc backed by m.
func envMap(m map[string]string) config.LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeYAML(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, config.DefaultCacheDir, cfg.Cache.Directory)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL())
	assert.Equal(t, cache.DefaultMaxEntries, cfg.Cache.DefaultMaxEntries)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, config.FormatAuto, cfg.Logging.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "fscache.yaml", `
cache:
  directory: /var/cache/recipes
  default_ttl: 12h
  namespaces:
    recipes/search:
      ttl: 3600
      max_entries: 50
    recipes/info:
      max_entries: 0
logging:
  level: debug
unknown_section:
  ignored: true
`)

	cfg, err := config.Load(path, nil, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "/var/cache/recipes", cfg.Cache.Directory)
	assert.Equal(t, 12*time.Hour, cfg.Cache.TTL())
	assert.Equal(t, cache.DefaultMaxEntries, cfg.Cache.DefaultMaxEntries, "omitted field keeps default")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.FormatAuto, cfg.Logging.Format)

	ttl, maxEntries := cfg.Cache.Policy("recipes/search")
	assert.Equal(t, time.Hour, ttl)
	assert.Equal(t, 50, maxEntries)

	ttl, maxEntries = cfg.Cache.Policy("recipes/info")
	assert.Equal(t, 12*time.Hour, ttl)
	assert.Equal(t, 0, maxEntries)

	ttl, maxEntries = cfg.Cache.Policy("recipes//search/")
	assert.Equal(t, time.Hour, ttl, "lookup uses the cleaned name")
	assert.Equal(t, 50, maxEntries)

	ttl, maxEntries = cfg.Cache.Policy("ingredients/search")
	assert.Equal(t, 12*time.Hour, ttl)
	assert.Equal(t, cache.DefaultMaxEntries, maxEntries)

	assert.Len(t, cfg.Cache.StoreOptions("recipes/search"), 2)
}

func TestLoad_SearchPathsAndOverlay(t *testing.T) {
	dir := t.TempDir()
	base := writeYAML(t, dir, "base.yaml", `
cache:
  directory: /base
  default_max_entries: 10
logging:
  level: warn
`)
	overlay := writeYAML(t, dir, "overlay.yaml", `
cache:
  directory: /overlay
`)

	cfg, err := config.Load("", []string{base, filepath.Join(dir, "missing.yaml"), overlay}, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "/overlay", cfg.Cache.Directory)
	assert.Equal(t, cache.DefaultMaxEntries, cfg.Cache.DefaultMaxEntries, "cache section replaced wholesale")
	assert.Equal(t, "warn", cfg.Logging.Level, "absent section untouched")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "cache: [unterminated"},
		{name: "bad ttl", content: "cache:\n  default_ttl: forever\n"},
		{name: "negative max entries", content: "cache:\n  default_max_entries: -1\n"},
		{name: "bad namespace", content: "cache:\n  namespaces:\n    ../escape:\n      ttl: 1h\n"},
		{name: "negative namespace capacity", content: "cache:\n  namespaces:\n    ok:\n      max_entries: -3\n"},
		{name: "bad log format", content: "logging:\n  format: xml\n"},
		{name: "empty directory", content: "cache:\n  directory: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeYAML(t, dir, "c.yaml", tt.content)
			_, err := config.Load(path, nil, envMap(nil))
			require.Error(t, err)
		})
	}

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := config.Load(filepath.Join(dir, "nope.yaml"), nil, envMap(nil))
		require.Error(t, err)
	})
}

func TestApplyEnv(t *testing.T) {
	cfg := config.Default()
	cfg.ApplyEnv(envMap(map[string]string{
		config.EnvCacheDir:   "/tmp/fscache",
		config.EnvTTL:        "300",
		config.EnvMaxEntries: "7",
		config.EnvLogLevel:   "debug",
		config.EnvLogFormat:  "json",
	}))

	assert.Equal(t, "/tmp/fscache", cfg.Cache.Directory)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL())
	assert.Equal(t, 7, cfg.Cache.DefaultMaxEntries)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.FormatJSON, cfg.Logging.Format)

	t.Run("invalid values keep file settings", func(t *testing.T) {
		cfg := config.Default()
		cfg.ApplyEnv(envMap(map[string]string{
			config.EnvTTL:        "soon",
			config.EnvMaxEntries: "-4",
		}))
		assert.Equal(t, cache.DefaultTTL, cfg.Cache.TTL())
		assert.Equal(t, cache.DefaultMaxEntries, cfg.Cache.DefaultMaxEntries)
	})

	t.Run("nil lookup", func(t *testing.T) {
		cfg := config.Default()
		assert.NotPanics(t, func() { cfg.ApplyEnv(nil) })
	})
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fscache.yaml")

	ttl := config.Duration(time.Hour)
	maxEntries := 5
	cfg := config.Default()
	cfg.Cache.Namespaces = map[string]config.NamespaceConfig{
		"recipes/search": {TTL: &ttl, MaxEntries: &maxEntries},
	}
	require.NoError(t, config.Save(cfg, path))

	loaded, err := config.Load(path, nil, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
