// Package outputs reads the published outputs of a deployed site stack.
package outputs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/smithy-go"
)

// Output keys published by the site stack.
const (
	KeyCertificate    = "Certificate"
	KeyBucket         = "Bucket"
	KeyDistributionID = "DistributionId"
)

// ErrStackNotFound is returned when the named stack does not exist in the account and region.
var ErrStackNotFound = errors.New("outputs: stack not found")

// Site is the deployed state a site stack publishes.
type Site struct {
	StackName      string `json:"stack_name" yaml:"stack_name"`
	StackStatus    string `json:"stack_status" yaml:"stack_status"`
	CertificateArn string `json:"certificate_arn" yaml:"certificate_arn"`
	BucketName     string `json:"bucket_name" yaml:"bucket_name"`
	DistributionID string `json:"distribution_id" yaml:"distribution_id"`
}

// Reader fetches stack outputs.
type Reader interface {
	Site(ctx context.Context, stackName string) (Site, error)
}

type cloudFormationAPI interface {
	DescribeStacks(
		ctx context.Context,
		params *cloudformation.DescribeStacksInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStacksOutput, error)
}

type reader struct {
	api cloudFormationAPI
}

type readerOptions struct {
	api    cloudFormationAPI
	awsCfg *aws.Config
	region string
}

type Option func(*readerOptions)

func WithAWSConfig(cfg aws.Config) Option {
	return func(opts *readerOptions) {
		cfgCopy := cfg
		opts.awsCfg = &cfgCopy
	}
}

func WithRegion(region string) Option {
	return func(opts *readerOptions) {
		opts.region = strings.TrimSpace(region)
	}
}

func WithAPI(api cloudFormationAPI) Option {
	return func(opts *readerOptions) {
		opts.api = api
	}
}

func NewReader(ctx context.Context, options ...Option) (Reader, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := &readerOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(opts)
	}

	if opts.api != nil {
		return &reader{api: opts.api}, nil
	}

	var cfg aws.Config
	if opts.awsCfg != nil {
		cfg = *opts.awsCfg
	} else {
		loaded, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	svc := cloudformation.NewFromConfig(cfg, func(o *cloudformation.Options) {
		if opts.region != "" {
			o.Region = opts.region
		}
	})
	return &reader{api: svc}, nil
}

func (r *reader) Site(ctx context.Context, stackName string) (Site, error) {
	if r == nil || r.api == nil {
		return Site{}, errors.New("outputs: reader is nil")
	}
	stackName = strings.TrimSpace(stackName)
	if stackName == "" {
		return Site{}, errors.New("outputs: stack name is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	out, err := r.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if isStackNotFound(err) {
			return Site{}, fmt.Errorf("%w: %s", ErrStackNotFound, stackName)
		}
		return Site{}, fmt.Errorf("outputs: describe stack %s: %w", stackName, err)
	}
	if out == nil || len(out.Stacks) == 0 {
		return Site{}, fmt.Errorf("%w: %s", ErrStackNotFound, stackName)
	}

	stack := out.Stacks[0]
	values := make(map[string]string, len(stack.Outputs))
	for _, o := range stack.Outputs {
		values[aws.ToString(o.OutputKey)] = aws.ToString(o.OutputValue)
	}

	site := Site{
		StackName:   aws.ToString(stack.StackName),
		StackStatus: string(stack.StackStatus),
	}
	var missing []string
	for key, dst := range map[string]*string{
		KeyCertificate:    &site.CertificateArn,
		KeyBucket:         &site.BucketName,
		KeyDistributionID: &site.DistributionID,
	} {
		value, ok := values[key]
		if !ok || value == "" {
			missing = append(missing, key)
			continue
		}
		*dst = value
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return site, fmt.Errorf("outputs: stack %s is missing outputs %s", stackName, strings.Join(missing, ", "))
	}
	return site, nil
}

// CloudFormation reports a missing stack as a generic ValidationError.
func isStackNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "does not exist")
}
