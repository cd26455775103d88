// Package confloader provides configuration loading mechanism.
//
// This package implements a flexible configuration loader backed by
// koanf, plus an fsnotify file watcher reused wherever the CLI needs to
// observe a file for changes (its own config, the transaction marker).
//
// Priority (highest to lowest):
//
//  1. Environment variables (SPECVAULT_*)
//  2. Configuration file (YAML)
//  3. Default values
package confloader
