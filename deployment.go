package sitetheory

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3deployment"
	"github.com/aws/jsii-runtime-go"
)

// newSiteDeployment uploads the built site into the bucket and invalidates the
// distribution cache once the upload completes.
func newSiteDeployment(stack awscdk.Stack, bucket awss3.IBucket, dist awscloudfront.IDistribution, cfg Config) awss3deployment.BucketDeployment {
	return awss3deployment.NewBucketDeployment(stack, jsii.String(idDeployment), &awss3deployment.BucketDeploymentProps{
		Sources: &[]awss3deployment.ISource{
			awss3deployment.Source_Asset(jsii.String(cfg.Deployment.AssetDir), nil),
		},
		DestinationBucket: bucket,
		Distribution:      dist,
		DistributionPaths: jsii.Strings(cfg.Deployment.InvalidationPaths...),
	})
}
