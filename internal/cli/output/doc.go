// Package output provides output formatting for the specvault CLI.
//
// Three formats are supported: an aligned ASCII table for terminals
// (default), indented JSON for automation, and YAML.
package output
