package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/theory-cloud/sitetheory/pkg/observability"
)

// ValidateCommand checks a config the way synth would, without touching AWS.
func ValidateCommand(log observability.StructuredLogger) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate the site config and asset directory",
		Description: `Fails when the config is invalid, when the hosted zone must be looked up
but no account and region are known, or when the asset directory is missing.

Examples:
  sitectl --config site.yaml validate
  SITE_ASSET_DIR=build sitectl validate`,
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := cfg.Preflight(); err != nil {
				return err
			}
			log.Info("site config valid", map[string]any{
				"stack_name":  cfg.StackName,
				"domain_name": cfg.DomainName,
			})
			_, err = fmt.Fprintf(c.App.Writer, "ok: %s (%s)\n", cfg.StackName, cfg.SiteDomain())
			return err
		},
	}
}
