package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/specvault/specvault/internal/cli/config"
	"github.com/specvault/specvault/internal/cli/output"
	"github.com/specvault/specvault/internal/core/service"
	"github.com/specvault/specvault/internal/infra/buildinfo"
	"github.com/specvault/specvault/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "specvault",
		Usage:   "Transactional change management for a project's spec store",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ChangeCommand(),
			SnapshotCommand(),
			ConfigCommand(),
			ShellCommand(),
		},
		Before: setup,
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Project root directory holding the spec store",
			EnvVars: []string{"SPECVAULT_ROOT"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path (default: <root>/.specvault.yaml)",
			EnvVars: []string{"SPECVAULT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// setup loads the effective configuration and wires the logger. It runs
// before every command.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"), c.String("root"))
	if err != nil {
		return err
	}
	if out := c.String("output"); out != "" {
		cfg.Output = out
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	level := cfg.Log.Level
	if c.Bool("verbose") {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:  level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return err
	}

	c.App.Metadata["config"] = cfg
	c.App.Metadata["logger"] = log
	return nil
}

// getConfig retrieves the loaded configuration from context.
func getConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata["config"].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// getLogger retrieves the logger from context.
func getLogger(c *cli.Context) logger.Logger {
	if log, ok := c.App.Metadata["logger"].(logger.Logger); ok {
		return log
	}
	return logger.Default()
}

// newService builds the change service for the configured project root.
func newService(c *cli.Context) (*service.ChangeService, error) {
	cfg := getConfig(c)
	lay, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	return service.NewChangeService(lay, getLogger(c).Slog()), nil
}

// newFormatter builds the output formatter selected by config and flags.
func newFormatter(c *cli.Context) output.Formatter {
	return output.NewFormatter(output.Format(getConfig(c).Output))
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
