package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/theory-cloud/sitetheory/pkg/observability"
)

// OutputsCommand prints the outputs of a deployed site stack.
func OutputsCommand(log observability.StructuredLogger, newReader ReaderFactory) *cli.Command {
	return &cli.Command{
		Name:  "outputs",
		Usage: "Print the certificate, bucket and distribution of a deployed site",
		Description: `Reads the Certificate, Bucket and DistributionId outputs with
cloudformation:DescribeStacks. The stack defaults to the configured stack name.

Examples:
  sitectl outputs
  sitectl outputs --stack code-adjacent-site-live --region eu-west-1`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "stack",
				Aliases: []string{"s"},
				Usage:   "CloudFormation stack name (default: from config)",
				EnvVars: []string{"SITE_STACK_NAME"},
			},
			&cli.StringFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Usage:   "AWS region of the stack (default: from config, then SDK defaults)",
				EnvVars: []string{"AWS_REGION"},
			},
		},
		Action: func(c *cli.Context) error {
			if newReader == nil {
				return errors.New("sitectl: outputs reader is not configured")
			}

			stackName := strings.TrimSpace(c.String("stack"))
			region := strings.TrimSpace(c.String("region"))
			if stackName == "" || region == "" {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				if stackName == "" {
					stackName = cfg.StackName
				}
				if region == "" {
					region = cfg.Region
				}
			}

			reader, err := newReader(c.Context, region)
			if err != nil {
				return fmt.Errorf("sitectl: outputs reader: %w", err)
			}
			site, err := reader.Site(c.Context, stackName)
			if err != nil {
				return err
			}
			log.Debug("stack outputs read", map[string]any{
				"stack_name":   site.StackName,
				"stack_status": site.StackStatus,
			})

			enc := yaml.NewEncoder(c.App.Writer)
			enc.SetIndent(2)
			if err := enc.Encode(site); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
