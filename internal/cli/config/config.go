package config

import (
	"fmt"

	storagespec "github.com/specvault/specvault/internal/storage/spec"
)

// DefaultConfigName is the config file looked up in the project root
// when --config is not given.
const DefaultConfigName = ".specvault.yaml"

// Config is the effective configuration for the specvault CLI.
type Config struct {
	// Root is the project root directory holding the spec store.
	Root string `koanf:"root" json:"root"`

	Spec   SpecConfig `koanf:"spec" json:"spec"`
	Log    LogConfig  `koanf:"log" json:"log"`
	Output string     `koanf:"output" json:"output"`
}

// SpecConfig names the files and directories of the spec store,
// relative to the project root.
type SpecConfig struct {
	Dir      string `koanf:"dir" json:"dir"`
	Manifest string `koanf:"manifest" json:"manifest"`
	Lock     string `koanf:"lock" json:"lock"`
	Slots    string `koanf:"slots" json:"slots"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Root: ".",
		Spec: SpecConfig{
			Dir:      storagespec.DefaultSpecDir,
			Manifest: storagespec.DefaultManifestName,
			Lock:     storagespec.DefaultLockName,
			Slots:    storagespec.DefaultSlotsDir,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: "table",
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root must not be empty")
	}
	if c.Spec.Dir == "" || c.Spec.Manifest == "" || c.Spec.Slots == "" {
		return fmt.Errorf("spec.dir, spec.manifest and spec.slots must not be empty")
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output must be one of table, json, yaml (got %q)", c.Output)
	}
	return nil
}

// Layout builds the spec store layout described by the configuration.
func (c *Config) Layout() (storagespec.Layout, error) {
	return storagespec.NewLayout(c.Root,
		storagespec.WithSpecDir(c.Spec.Dir),
		storagespec.WithManifestName(c.Spec.Manifest),
		storagespec.WithLockName(c.Spec.Lock),
		storagespec.WithSlotsDir(c.Spec.Slots),
	)
}
