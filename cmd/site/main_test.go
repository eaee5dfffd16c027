package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/require"

	"github.com/theory-cloud/sitetheory"
	"github.com/theory-cloud/sitetheory/pkg/notify"
	zaplog "github.com/theory-cloud/sitetheory/pkg/observability/zap"
	"github.com/theory-cloud/sitetheory/testkit"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestDeclare_FromEnvironment(t *testing.T) {
	lookup := lookupFrom(map[string]string{
		sitetheory.EnvAssetDir:     testkit.AssetDir(t),
		sitetheory.EnvHostedZoneID: testkit.HostedZoneID,
		sitetheory.EnvAccount:      testkit.Account,
		sitetheory.EnvRegion:       "us-east-1",
	})

	app := awscdk.NewApp(nil)
	log := zaplog.NewRecorder()
	require.NoError(t, declare(app, log, lookup))

	stack := awscdk.Stack_Of(app.Node().FindChild(jsii.String(stackID)))
	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::CloudFront::Distribution"), jsii.Number(1))
	require.Len(t, log.EntriesWithMessage("static site declared"), 1)
}

func TestDeclare_ReportsConfigErrors(t *testing.T) {
	lookup := lookupFrom(map[string]string{
		sitetheory.EnvConfigFile: filepath.Join(t.TempDir(), "missing.yaml"),
	})

	err := declare(awscdk.NewApp(nil), zaplog.NewRecorder(), lookup)
	require.Equal(t, sitetheory.ErrorCodeConfigRead, sitetheory.ErrorCode(err))
}

func TestReportFailure_PublishesOnce(t *testing.T) {
	lookup := lookupFrom(map[string]string{
		sitetheory.EnvStackName: "my_site",
		sitetheory.EnvAssetDir:  testkit.AssetDir(t),
		"CDK_DEFAULT_REGION":    "us-east-1",
	})
	failure := declare(awscdk.NewApp(nil), zaplog.NewRecorder(), lookup)
	require.Equal(t, sitetheory.ErrorCodeInvalidConfig, sitetheory.ErrorCode(failure))

	client := testkit.NewFakeSNSClient()
	log := zaplog.NewRecorder()
	reportFailure(context.Background(), notify.NewSNS(client, "arn:aws:sns:us-east-1:000000000000:site-alerts", ""), log, failure, lookup)

	require.Len(t, client.Calls(), 1)
	var got notify.Failure
	require.NoError(t, client.LastMessage(&got))
	require.Equal(t, stackID, got.StackID)
	require.Equal(t, sitetheory.ErrorCodeInvalidConfig, got.Code)
	require.Contains(t, got.Error, "stack_name failed cfn_stack_name")
	require.Equal(t, "us-east-1", got.Env["cdk_default_region"])
	require.Empty(t, log.Entries())
}

func TestReportFailure_LogsPublishError(t *testing.T) {
	client := testkit.NewFakeSNSClient()
	client.PublishErr = errors.New("throttled")
	log := zaplog.NewRecorder()

	reportFailure(context.Background(), notify.NewSNS(client, "arn:aws:sns:us-east-1:000000000000:site-alerts", ""), log,
		errors.New("boom"), lookupFrom(nil))

	entries := log.EntriesWithMessage("failure notification not sent")
	require.Len(t, entries, 1)
	require.Equal(t, "throttled", entries[0].Fields["error"])
}
