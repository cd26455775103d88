// Package config provides CLI configuration for specvault.
//
// Settings come from three sources, later ones overriding earlier:
//
//  1. Built-in defaults
//  2. A project config file (.specvault.yaml by default)
//  3. SPECVAULT_* environment variables
package config
