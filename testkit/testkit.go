// Package testkit holds fixtures for testing code built on sitetheory: a
// synthesizable site config, a synth helper and fake AWS clients.
package testkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/sitetheory"
	zaplog "github.com/theory-cloud/sitetheory/pkg/observability/zap"
)

// Fixture values used by SiteConfig.
const (
	Account      = "123456789012"
	HostedZoneID = "Z04285995NLANJ9487TN"
	StackID      = "SiteStack"
)

// SiteConfig returns the default site pinned to a test account in us-east-1, with an
// imported hosted zone and a temporary asset directory holding index.html.
func SiteConfig(t testing.TB) sitetheory.Config {
	t.Helper()

	cfg := sitetheory.DefaultConfig()
	cfg.Account = Account
	cfg.Region = sitetheory.CertificateRegion
	cfg.HostedZone.HostedZoneID = HostedZoneID
	cfg.Deployment.AssetDir = AssetDir(t)
	return cfg
}

// AssetDir creates a built-site directory with an index page and an error page.
func AssetDir(t testing.TB) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"index.html":       "<!doctype html><title>site</title>",
		"error/index.html": "<!doctype html><title>not found</title>",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("testkit: create asset dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("testkit: write asset: %v", err)
		}
	}
	return dir
}

// Synthesized is one declared site and its template.
type Synthesized struct {
	Site     *sitetheory.StaticSiteStack
	Template assertions.Template
	Log      *zaplog.Recorder
}

// Synth declares cfg in a fresh app and synthesizes its template, failing t on error.
// Log records every entry the declaration wrote, debug included.
func Synth(t testing.TB, cfg sitetheory.Config) Synthesized {
	t.Helper()

	log := zaplog.NewRecorder()
	site, err := sitetheory.NewStaticSiteStack(awscdk.NewApp(nil), StackID, &sitetheory.StaticSiteStackProps{
		Config: cfg,
		Logger: log,
	})
	if err != nil {
		t.Fatalf("testkit: declare site: %v", err)
	}
	return Synthesized{
		Site:     site,
		Template: assertions.Template_FromStack(site.Stack, nil),
		Log:      log,
	}
}

// LogicalID returns the logical id of the only resource of resourceType.
func (s Synthesized) LogicalID(t testing.TB, resourceType string) string {
	t.Helper()

	found := s.Template.FindResources(jsii.String(resourceType), nil)
	if found == nil || len(*found) != 1 {
		t.Fatalf("testkit: expected exactly one %s", resourceType)
	}
	for id := range *found {
		return id
	}
	return ""
}
