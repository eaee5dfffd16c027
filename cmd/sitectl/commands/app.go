package commands

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/theory-cloud/sitetheory"
	"github.com/theory-cloud/sitetheory/pkg/observability"
	"github.com/theory-cloud/sitetheory/pkg/outputs"
)

// ReaderFactory builds the stack outputs reader for a region ("" = SDK default).
type ReaderFactory func(ctx context.Context, region string) (outputs.Reader, error)

func DefaultReaderFactory(ctx context.Context, region string) (outputs.Reader, error) {
	return outputs.NewReader(ctx, outputs.WithRegion(region))
}

func NewApp(log observability.StructuredLogger, newReader ReaderFactory) *cli.App {
	return &cli.App{
		Name:  "sitectl",
		Usage: "Static site config and deployment helper",
		Description: `Works with the same site config the CDK app synthesizes from.

Config is read from --config (or SITE_CONFIG, or ./site.yaml when present),
then overridden by SITE_* and CDK_DEFAULT_* environment variables.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the site YAML config",
				EnvVars: []string{sitetheory.EnvConfigFile},
			},
		},
		Commands: []*cli.Command{
			ConfigCommand(log),
			ValidateCommand(log),
			OutputsCommand(log, newReader),
		},
	}
}

func loadConfig(c *cli.Context) (sitetheory.Config, error) {
	cfg, err := sitetheory.LoadConfigFile(sitetheory.ResolveConfigFile(c.String("config")))
	if err != nil {
		return sitetheory.Config{}, err
	}
	return cfg.ApplyEnv(os.LookupEnv).Normalize(), nil
}
