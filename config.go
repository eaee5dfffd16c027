package sitetheory

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/theory-cloud/sitetheory/pkg/naming"
)

// CertificateRegion is the only region CloudFront reads viewer certificates from.
const CertificateRegion = "us-east-1"

const (
	defaultAppName           = "code-adjacent"
	defaultStage             = "live"
	defaultDomainName        = "code-adjacent.com"
	defaultSitePrefix        = "www"
	defaultBucketName        = "code-adjacent-dumbelf"
	defaultAssetDir          = "frontend-react/dist"
	defaultIndexDocument     = "index.html"
	defaultErrorDocument     = "error/index.html"
	defaultErrorCachingTTL   = 30 * time.Minute
	defaultInvalidationPath  = "/*"
	defaultErrorResponseCode = 404
)

var (
	bucketNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)
	stackNamePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]{0,127}$`)
)

// Config describes one static site stack.
type Config struct {
	AppName   string `yaml:"app_name" validate:"required"`
	Stage     string `yaml:"stage"`
	StackName string `yaml:"stack_name" validate:"required,cfn_stack_name"`

	Account string `yaml:"account" validate:"omitempty,numeric,len=12"`
	Region  string `yaml:"region"`

	DomainName string `yaml:"domain_name" validate:"required,fqdn"`
	SitePrefix string `yaml:"site_prefix" validate:"omitempty,hostname_rfc1123"`
	BucketName string `yaml:"bucket_name" validate:"required,s3_bucket"`

	HostedZone HostedZoneConfig `yaml:"hosted_zone"`
	Website    WebsiteConfig    `yaml:"website"`
	Deployment DeploymentConfig `yaml:"deployment"`
}

// HostedZoneConfig selects how the existing Route 53 zone is resolved.
//
// When HostedZoneID is empty the zone is looked up by ZoneName (default: the site domain).
// ZoneName must be the domain itself or one of its parents.
type HostedZoneConfig struct {
	ZoneName     string `yaml:"zone_name" validate:"omitempty,fqdn"`
	HostedZoneID string `yaml:"hosted_zone_id" validate:"omitempty,alphanum"`
}

type WebsiteConfig struct {
	IndexDocument     string        `yaml:"index_document" validate:"required"`
	ErrorDocument     string        `yaml:"error_document" validate:"required"`
	ErrorResponseCode int           `yaml:"error_response_code" validate:"gte=400,lte=599"`
	ErrorCachingTTL   time.Duration `yaml:"error_caching_ttl" validate:"gte=0,whole_seconds"`
}

type DeploymentConfig struct {
	Skip              bool     `yaml:"skip"`
	AssetDir          string   `yaml:"asset_dir" validate:"required_unless=Skip true"`
	InvalidationPaths []string `yaml:"invalidation_paths" validate:"dive,startswith=/"`
}

// DefaultConfig returns the code-adjacent.com site.
func DefaultConfig() Config {
	return Config{
		AppName:    defaultAppName,
		Stage:      defaultStage,
		DomainName: defaultDomainName,
		SitePrefix: defaultSitePrefix,
		BucketName: defaultBucketName,
		Website: WebsiteConfig{
			IndexDocument:     defaultIndexDocument,
			ErrorDocument:     defaultErrorDocument,
			ErrorResponseCode: defaultErrorResponseCode,
			ErrorCachingTTL:   defaultErrorCachingTTL,
		},
		Deployment: DeploymentConfig{
			AssetDir:          defaultAssetDir,
			InvalidationPaths: []string{defaultInvalidationPath},
		},
	}
}

// SiteDomain is the prefixed host, e.g. www.code-adjacent.com.
func (c Config) SiteDomain() string {
	return naming.SiteDomain(c.SitePrefix, c.DomainName)
}

// AliasDomains lists the distribution aliases: the prefixed host first, then the apex.
func (c Config) AliasDomains() []string {
	site := c.SiteDomain()
	if site == c.DomainName {
		return []string{c.DomainName}
	}
	return []string{site, c.DomainName}
}

// ZoneName is the hosted zone the alias records and certificate validation use.
func (c Config) ZoneName() string {
	if c.HostedZone.ZoneName != "" {
		return c.HostedZone.ZoneName
	}
	return c.DomainName
}

// ErrorPagePath is the distribution path served for error responses.
func (c Config) ErrorPagePath() string {
	return "/" + strings.TrimPrefix(c.Website.ErrorDocument, "/")
}

// Normalize fills derived defaults and canonicalizes names. It is idempotent.
func (c Config) Normalize() Config {
	out := c

	out.AppName = strings.TrimSpace(out.AppName)
	out.Stage = naming.NormalizeStage(out.Stage)
	out.StackName = strings.TrimSpace(out.StackName)
	if out.StackName == "" && out.AppName != "" {
		out.StackName = naming.StackName(out.AppName, out.Stage)
	}

	out.Account = strings.TrimSpace(out.Account)
	out.Region = strings.TrimSpace(out.Region)

	out.DomainName = naming.NormalizeDomain(out.DomainName)
	out.SitePrefix = naming.NormalizeDomain(out.SitePrefix)
	out.BucketName = strings.ToLower(strings.TrimSpace(out.BucketName))
	if out.BucketName == "" && out.AppName != "" {
		out.BucketName = naming.BucketName(out.AppName, out.Stage, "")
	}

	out.HostedZone.ZoneName = naming.NormalizeDomain(out.HostedZone.ZoneName)
	out.HostedZone.HostedZoneID = strings.TrimSpace(out.HostedZone.HostedZoneID)

	out.Website.IndexDocument = strings.TrimPrefix(strings.TrimSpace(out.Website.IndexDocument), "/")
	out.Website.ErrorDocument = strings.TrimPrefix(strings.TrimSpace(out.Website.ErrorDocument), "/")
	if out.Website.ErrorResponseCode == 0 {
		out.Website.ErrorResponseCode = defaultErrorResponseCode
	}

	out.Deployment.AssetDir = strings.TrimSpace(out.Deployment.AssetDir)
	if len(out.Deployment.InvalidationPaths) == 0 {
		out.Deployment.InvalidationPaths = []string{defaultInvalidationPath}
	} else {
		out.Deployment.InvalidationPaths = append([]string(nil), out.Deployment.InvalidationPaths...)
	}

	return out
}

// Validate checks the config and reports every failing field in one AppError.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newAppError(ErrorCodeInvalidConfig, "invalid site config", err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %s", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag()))
	}
	return newAppError(ErrorCodeInvalidConfig, strings.Join(problems, "; "), nil)
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, fn := range map[string]validator.Func{
		"s3_bucket":      validateBucketName,
		"cfn_stack_name": validateStackName,
		"whole_seconds":  validateWholeSeconds,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	v.RegisterStructValidation(validateZoneOfDomain, Config{})
	return v
}

func validateStackName(fl validator.FieldLevel) bool {
	return stackNamePattern.MatchString(fl.Field().String())
}

// CDK durations are whole seconds; anything finer fails at synth.
func validateWholeSeconds(fl validator.FieldLevel) bool {
	return time.Duration(fl.Field().Int())%time.Second == 0
}

// Alias records are named relative to the zone, so a zone outside the domain yields
// names like www.example.com.other.org.
func validateZoneOfDomain(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok || cfg.HostedZone.ZoneName == "" || cfg.DomainName == "" {
		return
	}
	zone := cfg.HostedZone.ZoneName
	if cfg.DomainName == zone || strings.HasSuffix(cfg.DomainName, "."+zone) {
		return
	}
	sl.ReportError(zone, "hosted_zone.zone_name", "ZoneName", "zone_of_domain", cfg.DomainName)
}

func validateBucketName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if !bucketNamePattern.MatchString(name) {
		return false
	}
	return !strings.Contains(name, "..") && !strings.HasPrefix(name, "xn--")
}
