package sitetheory

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile points at the site YAML. Without it DefaultConfigFile is read when present.
const (
	EnvConfigFile     = "SITE_CONFIG"
	DefaultConfigFile = "site.yaml"
)

// Environment variables read by ApplyEnv.
const (
	EnvDomainName   = "SITE_DOMAIN_NAME"
	EnvSitePrefix   = "SITE_PREFIX"
	EnvBucketName   = "SITE_BUCKET_NAME"
	EnvStage        = "SITE_STAGE"
	EnvStackName    = "SITE_STACK_NAME"
	EnvAssetDir     = "SITE_ASSET_DIR"
	EnvHostedZoneID = "SITE_HOSTED_ZONE_ID"
	EnvAccount      = "CDK_DEFAULT_ACCOUNT"
	EnvRegion       = "CDK_DEFAULT_REGION"
)

// CDK context keys read by ApplyContext (cdk.json "context" or `cdk synth -c`).
const (
	ContextDomainName   = "sitetheory:domainName"
	ContextSitePrefix   = "sitetheory:sitePrefix"
	ContextBucketName   = "sitetheory:bucketName"
	ContextStage        = "sitetheory:stage"
	ContextAssetDir     = "sitetheory:assetDir"
	ContextHostedZoneID = "sitetheory:hostedZoneId"
)

// LoadConfigFile reads a YAML site config layered over DefaultConfig.
//
// An empty path returns the defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	//nolint:gosec // Config path is supplied by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, newAppError(ErrorCodeConfigRead, errorMessageConfigRead, err)
	}
	return decodeConfig(cfg, data)
}

// ResolveConfigFile returns path, or DefaultConfigFile when path is empty and that file exists.
func ResolveConfigFile(path string) string {
	path = strings.TrimSpace(path)
	if path != "" {
		return path
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

func decodeConfig(base Config, data []byte) (Config, error) {
	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, newAppError(ErrorCodeConfigRead, errorMessageConfigParse, err)
	}
	return cfg, nil
}

// ApplyEnv overrides config values from environment variables.
//
// Account and region only fill empty values, matching how the CDK CLI exports them.
func (c Config) ApplyEnv(lookup func(string) (string, bool)) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		value, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(value)
	}

	out := c
	setIfPresent(&out.DomainName, get(EnvDomainName))
	setIfPresent(&out.SitePrefix, get(EnvSitePrefix))
	setIfPresent(&out.BucketName, get(EnvBucketName))
	setIfPresent(&out.Stage, get(EnvStage))
	setIfPresent(&out.StackName, get(EnvStackName))
	setIfPresent(&out.Deployment.AssetDir, get(EnvAssetDir))
	setIfPresent(&out.HostedZone.HostedZoneID, get(EnvHostedZoneID))
	if out.Account == "" {
		out.Account = get(EnvAccount)
	}
	if out.Region == "" {
		out.Region = get(EnvRegion)
	}
	return out
}

// ApplyContext overrides config values from CDK context on node.
func (c Config) ApplyContext(node constructs.Node) Config {
	if node == nil {
		return c
	}
	get := func(key string) string {
		value, ok := node.TryGetContext(jsii.String(key)).(string)
		if !ok {
			return ""
		}
		return strings.TrimSpace(value)
	}

	out := c
	setIfPresent(&out.DomainName, get(ContextDomainName))
	setIfPresent(&out.SitePrefix, get(ContextSitePrefix))
	setIfPresent(&out.BucketName, get(ContextBucketName))
	setIfPresent(&out.Stage, get(ContextStage))
	setIfPresent(&out.Deployment.AssetDir, get(ContextAssetDir))
	setIfPresent(&out.HostedZone.HostedZoneID, get(ContextHostedZoneID))
	return out
}

// YAML renders the config in the same shape LoadConfigFile reads.
func (c Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
