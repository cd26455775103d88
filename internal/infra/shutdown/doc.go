// Package shutdown provides graceful shutdown for specvault.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-bounded cleanup
//   - Cleanup callback registration, run in reverse order
//
// The CLI's long-running commands (watching the transaction marker)
// use it to tear down file watchers before exiting.
package shutdown
