package sitetheory

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/jsii-runtime-go"
)

// newAliasRecords points the site host and the apex at the distribution.
//
// The site record is nil when the site has no prefix, since it would duplicate the apex record.
func newAliasRecords(stack awscdk.Stack, zone awsroute53.IHostedZone, dist awscloudfront.IDistribution, cfg Config) (site, apex awsroute53.ARecord) {
	if cfg.SiteDomain() != cfg.DomainName {
		site = awsroute53.NewARecord(stack, jsii.String(idSiteRecord), &awsroute53.ARecordProps{
			Zone:       zone,
			RecordName: jsii.String(cfg.SiteDomain()),
			Target:     awsroute53.RecordTarget_FromAlias(awsroute53targets.NewCloudFrontTarget(dist)),
		})
	}
	apex = awsroute53.NewARecord(stack, jsii.String(idApexRecord), &awsroute53.ARecordProps{
		Zone:       zone,
		RecordName: jsii.String(cfg.DomainName),
		Target:     awsroute53.RecordTarget_FromAlias(awsroute53targets.NewCloudFrontTarget(dist)),
	})
	return site, apex
}
