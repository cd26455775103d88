// Package command provides CLI command definitions for specvault.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, config and logger setup
//   - change.go: Change (transaction) subcommand group
//   - snapshot.go: Snapshot history subcommand group
//   - config.go: Configuration subcommand group
//
// Commands follow a consistent pattern of parsing flags, calling the
// change service, and formatting output.
package command
