package repl

import "strings"

// Completer provides command completion for the shell.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the specvault command set.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"change", "change begin", "change commit", "change rollback",
			"change status", "change log",
			"snapshot", "snapshot list", "snapshot show", "snapshot create",
			"snapshot restore", "snapshot delete", "snapshot prune",
			"config", "config show",
			"help", "exit", "quit",
		},
	}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Commands returns the full command list.
func (c *Completer) Commands() []string {
	return c.commands
}
