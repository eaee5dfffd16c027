package naming

import (
	"regexp"
	"strings"
)

const (
	bucketNameMinLen = 3
	bucketNameMaxLen = 63
)

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

func sanitizePart(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, "_", "-")
	value = strings.ReplaceAll(value, " ", "-")
	value = strings.ReplaceAll(value, ".", "-")
	value = nonAlnum.ReplaceAllString(value, "-")
	value = multiDash.ReplaceAllString(value, "-")
	value = strings.Trim(value, "-")
	return value
}

// NormalizeStage maps stage aliases to canonical values.
//
// Canonical stages are lowercased and safe for typical resource naming schemes.
func NormalizeStage(stage string) string {
	stage = strings.ToLower(strings.TrimSpace(stage))
	switch stage {
	case "prod", "production", "live":
		return "live"
	case "dev", "development":
		return "dev"
	case "stg", "stage", "staging":
		return "stage"
	case "test", "testing":
		return "test"
	case "local":
		return "local"
	default:
		return sanitizePart(stage)
	}
}

// ResourceName returns a deterministic resource name:
// - <app>-<resource>-<stage>
// - <app>-<tenant>-<resource>-<stage> (when tenant is provided)
func ResourceName(appName, resource, stage, tenant string) string {
	return join(sanitizePart(appName), sanitizePart(tenant), sanitizePart(resource), NormalizeStage(stage))
}

// StackName returns the CloudFormation stack name for a site: <app>-site-<stage>.
func StackName(appName, stage string) string {
	return ResourceName(appName, "site", stage, "")
}

// BucketName returns an S3-safe bucket name derived from the site resource name.
//
// The result only contains [a-z0-9-], never starts or ends with a dash and is
// clamped to 63 characters. Names shorter than 3 characters are padded with "-site".
func BucketName(appName, stage, tenant string) string {
	name := ResourceName(appName, "site", stage, tenant)
	if len(name) > bucketNameMaxLen {
		name = strings.TrimRight(name[:bucketNameMaxLen], "-")
	}
	if len(name) < bucketNameMinLen {
		name = strings.Trim(name+"-site", "-")
	}
	return name
}

// NormalizeDomain lowercases a DNS name and strips surrounding space and the trailing root dot.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimSuffix(domain, ".")
}

// SiteDomain returns <prefix>.<apex>, or the apex itself when prefix is empty.
func SiteDomain(prefix, apex string) string {
	apex = NormalizeDomain(apex)
	prefix = strings.Trim(NormalizeDomain(prefix), ".")
	if prefix == "" {
		return apex
	}
	if apex == "" {
		return prefix
	}
	return prefix + "." + apex
}

// WildcardDomain returns *.<apex>.
func WildcardDomain(apex string) string {
	apex = NormalizeDomain(apex)
	if apex == "" {
		return ""
	}
	return "*." + apex
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, "-")
}
