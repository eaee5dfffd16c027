// Command sitectl inspects site configs and deployed site stacks.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/theory-cloud/sitetheory"
	"github.com/theory-cloud/sitetheory/cmd/sitectl/commands"
	"github.com/theory-cloud/sitetheory/pkg/logger"
	zaplog "github.com/theory-cloud/sitetheory/pkg/observability/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "sitectl: FAIL: load .env: %v\n", err)
		return 2
	}

	log, err := zaplog.New(zaplog.ConfigFromEnv(os.LookupEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "sitectl: FAIL: logger: %v\n", err)
		return 2
	}
	logger.SetLogger(log)
	defer func() { _ = log.Sync() }()

	app := commands.NewApp(log, commands.DefaultReaderFactory)
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Error("sitectl failed", map[string]any{
			"error": err.Error(),
			"code":  sitetheory.ErrorCode(err),
		})
		return 1
	}
	return 0
}
