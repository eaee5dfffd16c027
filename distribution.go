package sitetheory

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"
)

func newSiteDistribution(stack awscdk.Stack, cert awscertificatemanager.ICertificate, bucket awss3.IBucket, cfg Config) awscloudfront.Distribution {
	return awscloudfront.NewDistribution(stack, jsii.String(idDistribution), &awscloudfront.DistributionProps{
		Certificate:            cert,
		DefaultRootObject:      jsii.String(cfg.Website.IndexDocument),
		DomainNames:            jsii.Strings(cfg.AliasDomains()...),
		MinimumProtocolVersion: awscloudfront.SecurityPolicyProtocol_TLS_V1_2_2021,
		ErrorResponses: &[]*awscloudfront.ErrorResponse{
			{
				HttpStatus:         jsii.Number(float64(cfg.Website.ErrorResponseCode)),
				ResponseHttpStatus: jsii.Number(float64(cfg.Website.ErrorResponseCode)),
				ResponsePagePath:   jsii.String(cfg.ErrorPagePath()),
				Ttl:                awscdk.Duration_Seconds(jsii.Number(cfg.Website.ErrorCachingTTL.Seconds())),
			},
		},
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			// Website endpoints resolve index documents in sub-paths, which the REST origin does not.
			Origin:               awscloudfrontorigins.NewS3StaticWebsiteOrigin(bucket, nil),
			Compress:             jsii.Bool(true),
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_GET_HEAD_OPTIONS(),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
		},
	})
}
