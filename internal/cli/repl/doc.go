// Package repl provides the interactive shell mode for specvault.
//
// This package implements the Read-Eval-Print Loop for interactive
// sessions:
//
//   - repl.go: Main loop, line tokenizing, and command dispatch
//   - completer.go: Prefix completion for commands
//   - history.go: Command history persistence
package repl
