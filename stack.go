package sitetheory

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3deployment"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/sitetheory/pkg/logger"
	"github.com/theory-cloud/sitetheory/pkg/observability"
)

// Construct ids. They become CloudFormation logical id prefixes, so changing one replaces the resource.
const (
	idHostedZone   = "HostedZone"
	idCertificate  = "SiteCertificate"
	idBucket       = "SiteBucket"
	idDistribution = "SiteDistribution"
	idSiteRecord   = "WWWSiteAliasRecord"
	idApexRecord   = "SiteAliasRecord"
	idDeployment   = "DeployReactApp"
)

type StaticSiteStackProps struct {
	awscdk.StackProps

	Config Config
	Logger observability.StructuredLogger
}

// StaticSiteStack holds the handles of every resource declared for one site.
type StaticSiteStack struct {
	Stack  awscdk.Stack
	Config Config

	HostedZone   awsroute53.IHostedZone
	Certificate  awscertificatemanager.ICertificate
	Bucket       awss3.Bucket
	Distribution awscloudfront.Distribution

	// SiteRecord is nil when the site has no prefix and only the apex is served.
	SiteRecord awsroute53.ARecord
	ApexRecord awsroute53.ARecord

	// Deployment is nil when Config.Deployment.Skip is set.
	Deployment awss3deployment.BucketDeployment

	Outputs SiteOutputs
}

// NewStaticSiteStack declares the hosting topology for one static site:
// zone lookup, certificate, bucket, distribution, alias records and content deployment.
//
// The config is normalized and validated first; nothing is declared when it is invalid.
func NewStaticSiteStack(scope constructs.Construct, id string, props *StaticSiteStackProps) (*StaticSiteStack, error) {
	if props == nil {
		props = &StaticSiteStackProps{Config: DefaultConfig()}
	}

	cfg := props.Config
	if props.StackName != nil {
		cfg.StackName = *props.StackName
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sprops := props.StackProps
	if sprops.Env == nil && cfg.Account != "" && cfg.Region != "" {
		sprops.Env = &awscdk.Environment{
			Account: jsii.String(cfg.Account),
			Region:  jsii.String(cfg.Region),
		}
	}
	sprops.StackName = jsii.String(cfg.StackName)
	if sprops.Description == nil {
		sprops.Description = jsii.String("Static site hosting for " + cfg.DomainName)
	}

	if cfg.HostedZone.HostedZoneID == "" && !hasConcreteEnv(sprops.Env) {
		return nil, newAppError(ErrorCodeLookupEnvironment, errorMessageLookupEnvironment, nil)
	}
	if err := checkAssetDir(cfg.Deployment); err != nil {
		return nil, err
	}

	log := props.Logger
	if log == nil {
		log = logger.Logger()
	}

	stack := awscdk.NewStack(scope, jsii.String(id), &sprops)
	log = log.WithStack(*stack.StackName())
	tagStack(stack, cfg)

	site := &StaticSiteStack{
		Stack:  stack,
		Config: cfg,
	}

	site.HostedZone = lookupHostedZone(stack, cfg)
	declared(log, site.HostedZone, "AWS::Route53::HostedZone", map[string]any{"zone_name": cfg.ZoneName()})

	site.Certificate = newSiteCertificate(stack, site.HostedZone, cfg)
	declared(log, site.Certificate, "AWS::CertificateManager::Certificate", map[string]any{
		"domain_name":               cfg.DomainName,
		"subject_alternative_names": subjectAlternativeNames(cfg),
	})

	site.Bucket = newSiteBucket(stack, cfg)
	declared(log, site.Bucket, "AWS::S3::Bucket", map[string]any{"bucket_name": cfg.BucketName})

	site.Distribution = newSiteDistribution(stack, site.Certificate, site.Bucket, cfg)
	declared(log, site.Distribution, "AWS::CloudFront::Distribution", map[string]any{"aliases": cfg.AliasDomains()})

	site.SiteRecord, site.ApexRecord = newAliasRecords(stack, site.HostedZone, site.Distribution, cfg)
	if site.SiteRecord != nil {
		declared(log, site.SiteRecord, "AWS::Route53::RecordSet", map[string]any{"record_name": cfg.SiteDomain()})
	}
	declared(log, site.ApexRecord, "AWS::Route53::RecordSet", map[string]any{"record_name": cfg.DomainName})

	if cfg.Deployment.Skip {
		log.Warn("content deployment skipped", map[string]any{"asset_dir": cfg.Deployment.AssetDir})
	} else {
		site.Deployment = newSiteDeployment(stack, site.Bucket, site.Distribution, cfg)
		declared(log, site.Deployment, "Custom::CDKBucketDeployment", map[string]any{
			"asset_dir":          cfg.Deployment.AssetDir,
			"invalidation_paths": cfg.Deployment.InvalidationPaths,
		})
	}

	site.Outputs = publishOutputs(stack, site.Certificate, site.Bucket, site.Distribution)
	log.Info("static site declared", map[string]any{
		"domain_name": cfg.DomainName,
		"bucket_name": cfg.BucketName,
	})

	return site, nil
}

func hasConcreteEnv(env *awscdk.Environment) bool {
	if env == nil || env.Account == nil || env.Region == nil {
		return false
	}
	return *env.Account != "" && *env.Region != "" &&
		!*awscdk.Token_IsUnresolved(env.Account) && !*awscdk.Token_IsUnresolved(env.Region)
}

func checkAssetDir(cfg DeploymentConfig) error {
	if cfg.Skip {
		return nil
	}
	info, err := os.Stat(cfg.AssetDir)
	if err != nil {
		return newAppError(ErrorCodeAssetsMissing, errorMessageAssetsMissing, err)
	}
	if !info.IsDir() {
		return newAppError(ErrorCodeAssetsMissing, errorMessageAssetsNotDir+": "+cfg.AssetDir, nil)
	}
	return nil
}

func tagStack(stack awscdk.Stack, cfg Config) {
	tags := awscdk.Tags_Of(stack)
	tags.Add(jsii.String("app"), jsii.String(cfg.AppName), nil)
	if cfg.Stage != "" {
		tags.Add(jsii.String("stage"), jsii.String(cfg.Stage), nil)
	}
	tags.Add(jsii.String("site"), jsii.String(cfg.DomainName), nil)
}

func declared(log observability.StructuredLogger, construct constructs.IConstruct, resourceType string, fields map[string]any) {
	log.WithConstruct(*construct.Node().Path()).Debug("resource declared", fields, map[string]any{"type": resourceType})
}

// Preflight reports the config problems NewStaticSiteStack would fail on, without declaring anything.
//
// It only sees the config's own account and region, not StackProps.Env.
func (c Config) Preflight() error {
	cfg := c.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.HostedZone.HostedZoneID == "" && (cfg.Account == "" || cfg.Region == "") {
		return newAppError(ErrorCodeLookupEnvironment, errorMessageLookupEnvironment, nil)
	}
	return checkAssetDir(cfg.Deployment)
}
