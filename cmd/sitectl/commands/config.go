package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/theory-cloud/sitetheory/pkg/observability"
)

// ConfigCommand prints the resolved site config.
func ConfigCommand(log observability.StructuredLogger) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the resolved site config as YAML",
		Description: `Prints the config after file, environment and default values are merged
and names are normalized. The output is itself a valid --config file.`,
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			log.Debug("config resolved", map[string]any{"stack_name": cfg.StackName})
			_, err = c.App.Writer.Write(data)
			return err
		},
	}
}
