package sitetheory

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/sitetheory/pkg/naming"
)

// newSiteCertificate declares the one viewer certificate for the distribution.
//
// CloudFront only reads certificates from us-east-1. A stack deployed there gets a
// plain DNS-validated certificate; any other stack requests it cross-region.
func newSiteCertificate(stack awscdk.Stack, zone awsroute53.IHostedZone, cfg Config) awscertificatemanager.ICertificate {
	sans := jsii.Strings(subjectAlternativeNames(cfg)...)

	var cert awscertificatemanager.ICertificate
	if stackInCertificateRegion(stack) {
		cert = awscertificatemanager.NewCertificate(stack, jsii.String(idCertificate), &awscertificatemanager.CertificateProps{
			DomainName:              jsii.String(cfg.DomainName),
			SubjectAlternativeNames: sans,
			Validation:              awscertificatemanager.CertificateValidation_FromDns(zone),
		})
	} else {
		cert = awscertificatemanager.NewDnsValidatedCertificate(stack, jsii.String(idCertificate), &awscertificatemanager.DnsValidatedCertificateProps{
			DomainName:              jsii.String(cfg.DomainName),
			SubjectAlternativeNames: sans,
			HostedZone:              zone,
			Region:                  jsii.String(CertificateRegion),
		})
		awscdk.Annotations_Of(stack).AddInfo(jsii.String("site certificate is requested in " + CertificateRegion + " from a stack outside that region"))
	}
	cert.ApplyRemovalPolicy(awscdk.RemovalPolicy_DESTROY)
	return cert
}

func stackInCertificateRegion(stack awscdk.Stack) bool {
	region := stack.Region()
	if region == nil || *awscdk.Token_IsUnresolved(region) {
		return false
	}
	return *region == CertificateRegion
}

// subjectAlternativeNames covers the wildcard, plus the site host when the wildcard
// cannot match it (multi-label prefixes such as "beta.www").
func subjectAlternativeNames(cfg Config) []string {
	sans := []string{naming.WildcardDomain(cfg.DomainName)}
	site := cfg.SiteDomain()
	if site == cfg.DomainName {
		return sans
	}
	label := strings.TrimSuffix(site, "."+cfg.DomainName)
	if strings.Contains(label, ".") {
		sans = append(sans, site)
	}
	return sans
}
