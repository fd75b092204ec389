package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Load builds the effective configuration: built-in defaults, then each
// existing file in order (later files win per section), then the
// environment. Missing files are skipped; the explicit path, if non-empty,
// must exist.
func Load(explicitPath string, searchPaths []string, lookupEnv LookupEnvFunc) (*Config, error) {
	cfg := Default()

	for _, p := range searchPaths {
		if p == "" {
			continue
		}
		err := ShallowMergeYAML(cfg, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if err := ShallowMergeYAML(cfg, explicitPath); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(lookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads ./fscache.yaml if present plus the process environment.
func LoadDefault(explicitPath string) (*Config, error) {
	return Load(explicitPath, []string{DefaultConfigFile}, os.LookupEnv)
}

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = "fscache.yaml"

// Save writes cfg as YAML to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
