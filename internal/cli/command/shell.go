package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/specvault/specvault/internal/cli/repl"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:   "shell",
		Usage:  "Start an interactive session",
		Action: shellRun,
	}
}

func shellRun(c *cli.Context) error {
	// Carry the resolved global flags into every dispatched command so
	// one shell session sticks to one project root.
	prefix := []string{"specvault"}
	if root := c.String("root"); root != "" {
		prefix = append(prefix, "--root", root)
	}
	if cfgPath := c.String("config"); cfgPath != "" {
		prefix = append(prefix, "--config", cfgPath)
	}
	if out := c.String("output"); out != "" {
		prefix = append(prefix, "--output", out)
	}
	if c.Bool("verbose") {
		prefix = append(prefix, "--verbose")
	}

	runner := func(args []string) error {
		if len(args) > 0 && args[0] == "shell" {
			return fmt.Errorf("already in a shell")
		}
		full := make([]string, 0, len(prefix)+len(args))
		full = append(full, prefix...)
		full = append(full, args...)
		return App().Run(full)
	}
	return repl.New(runner).Run()
}
