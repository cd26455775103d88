package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/specvault/specvault/internal/infra/confloader"
)

// Load resolves the effective configuration. An explicit path must
// exist; an empty path falls back to <root>/.specvault.yaml and is
// silently skipped when absent. Environment variables override the
// file in both cases.
func Load(path, root string) (*Config, error) {
	cfg := Default()
	if root != "" {
		cfg.Root = root
	}

	if path == "" {
		candidate := filepath.Join(cfg.Root, DefaultConfigName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	opts := []confloader.Option{}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	// An explicit --root always wins over file and environment.
	if root != "" {
		cfg.Root = root
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
