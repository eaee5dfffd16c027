package sitetheory

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/sitetheory/pkg/outputs"
)

// SiteOutputs are the CfnOutputs outputs.Reader reads back after deploy.
type SiteOutputs struct {
	Certificate    awscdk.CfnOutput
	Bucket         awscdk.CfnOutput
	DistributionID awscdk.CfnOutput
}

func publishOutputs(stack awscdk.Stack, cert awscertificatemanager.ICertificate, bucket awss3.IBucket, dist awscloudfront.IDistribution) SiteOutputs {
	return SiteOutputs{
		Certificate: awscdk.NewCfnOutput(stack, jsii.String(outputs.KeyCertificate), &awscdk.CfnOutputProps{
			Value:       cert.CertificateArn(),
			Description: jsii.String("Viewer certificate ARN (us-east-1)"),
		}),
		Bucket: awscdk.NewCfnOutput(stack, jsii.String(outputs.KeyBucket), &awscdk.CfnOutputProps{
			Value:       bucket.BucketName(),
			Description: jsii.String("Website content bucket"),
		}),
		DistributionID: awscdk.NewCfnOutput(stack, jsii.String(outputs.KeyDistributionID), &awscdk.CfnOutputProps{
			Value:       dist.DistributionId(),
			Description: jsii.String("CloudFront distribution id"),
		}),
	}
}
