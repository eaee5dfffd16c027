// Command site is the CDK app that synthesizes the static site stack.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/joho/godotenv"

	"github.com/theory-cloud/sitetheory"
	"github.com/theory-cloud/sitetheory/pkg/logger"
	"github.com/theory-cloud/sitetheory/pkg/notify"
	"github.com/theory-cloud/sitetheory/pkg/observability"
	zaplog "github.com/theory-cloud/sitetheory/pkg/observability/zap"
)

const (
	stackID       = "SiteStack"
	notifyTimeout = 10 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	defer jsii.Close()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "site: FAIL: load .env: %v\n", err)
		return 2
	}

	log, err := zaplog.New(zaplog.ConfigFromEnv(os.LookupEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "site: FAIL: logger: %v\n", err)
		return 2
	}
	logger.SetLogger(log)
	defer func() { _ = log.Sync() }()

	app := awscdk.NewApp(nil)
	if err := declare(app, log, os.LookupEnv); err != nil {
		log.Error("site stack not declared", map[string]any{
			"error": err.Error(),
			"code":  sitetheory.ErrorCode(err),
		})

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		sns, nerr := notify.FromEnv(ctx, os.LookupEnv)
		if nerr != nil {
			log.Warn("failure notifier unavailable", map[string]any{"error": nerr.Error()})
		} else if sns != nil {
			reportFailure(ctx, sns, log, err, os.LookupEnv)
		}
		return 1
	}

	app.Synth(nil)
	return 0
}

func declare(app awscdk.App, log observability.StructuredLogger, lookup func(string) (string, bool)) error {
	path, _ := lookup(sitetheory.EnvConfigFile)
	cfg, err := sitetheory.LoadConfigFile(sitetheory.ResolveConfigFile(path))
	if err != nil {
		return err
	}
	cfg = cfg.ApplyEnv(lookup).ApplyContext(app.Node())

	_, err = sitetheory.NewStaticSiteStack(app, stackID, &sitetheory.StaticSiteStackProps{
		Config: cfg,
		Logger: log,
	})
	return err
}

// reportFailure publishes one notification for a failed declaration. A publish error is logged, not returned.
func reportFailure(ctx context.Context, n notify.Notifier, log observability.StructuredLogger, failure error, lookup func(string) (string, bool)) {
	err := n.SynthFailed(ctx, notify.Failure{
		StackID: stackID,
		Code:    sitetheory.ErrorCode(failure),
		Error:   failure.Error(),
		Env:     notify.CaptureEnv(lookup),
	})
	if err != nil {
		log.Warn("failure notification not sent", map[string]any{"error": err.Error()})
	}
}
