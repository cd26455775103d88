package command

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/specvault/specvault/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the effective configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration after file and environment merging",
				Action: configShow,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg := getConfig(c)

	if output.Format(cfg.Output) == output.FormatTable {
		flat := map[string]string{
			"root":          cfg.Root,
			"spec.dir":      cfg.Spec.Dir,
			"spec.manifest": cfg.Spec.Manifest,
			"spec.lock":     cfg.Spec.Lock,
			"spec.slots":    cfg.Spec.Slots,
			"log.level":     cfg.Log.Level,
			"log.format":    cfg.Log.Format,
			"output":        cfg.Output,
		}
		return newFormatter(c).Format(os.Stdout, flat)
	}
	return newFormatter(c).Format(os.Stdout, cfg)
}
