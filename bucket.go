package sitetheory

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"
)

// newSiteBucket declares the publicly readable website bucket.
//
// All content is public. The bucket and its objects are destroyed with the stack.
func newSiteBucket(stack awscdk.Stack, cfg Config) awss3.Bucket {
	return awss3.NewBucket(stack, jsii.String(idBucket), &awss3.BucketProps{
		BucketName:           jsii.String(cfg.BucketName),
		PublicReadAccess:     jsii.Bool(true),
		RemovalPolicy:        awscdk.RemovalPolicy_DESTROY,
		AutoDeleteObjects:    jsii.Bool(true),
		BlockPublicAccess:    awss3.BlockPublicAccess_BLOCK_ACLS_ONLY(),
		AccessControl:        awss3.BucketAccessControl_BUCKET_OWNER_FULL_CONTROL,
		WebsiteIndexDocument: jsii.String(cfg.Website.IndexDocument),
		WebsiteErrorDocument: jsii.String(cfg.Website.ErrorDocument),
	})
}
