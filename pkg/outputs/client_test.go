package outputs

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	calls []*cloudformation.DescribeStacksInput
	out   *cloudformation.DescribeStacksOutput
	err   error
}

func (f *fakeAPI) DescribeStacks(
	_ context.Context,
	params *cloudformation.DescribeStacksInput,
	_ ...func(*cloudformation.Options),
) (*cloudformation.DescribeStacksOutput, error) {
	f.calls = append(f.calls, params)
	return f.out, f.err
}

func stackWithOutputs(outputs map[string]string) *cloudformation.DescribeStacksOutput {
	stack := types.Stack{
		StackName:   aws.String("code-adjacent-site-live"),
		StackStatus: types.StackStatusUpdateComplete,
	}
	for key, value := range outputs {
		stack.Outputs = append(stack.Outputs, types.Output{
			OutputKey:   aws.String(key),
			OutputValue: aws.String(value),
		})
	}
	return &cloudformation.DescribeStacksOutput{Stacks: []types.Stack{stack}}
}

func TestReader_Site(t *testing.T) {
	fake := &fakeAPI{out: stackWithOutputs(map[string]string{
		KeyCertificate:    "arn:aws:acm:us-east-1:123456789012:certificate/abc",
		KeyBucket:         "code-adjacent-dumbelf",
		KeyDistributionID: "E123EXAMPLE",
	})}

	r, err := NewReader(context.Background(), WithAPI(fake))
	require.NoError(t, err)

	site, err := r.Site(context.Background(), " code-adjacent-site-live ")
	require.NoError(t, err)
	require.Equal(t, Site{
		StackName:      "code-adjacent-site-live",
		StackStatus:    "UPDATE_COMPLETE",
		CertificateArn: "arn:aws:acm:us-east-1:123456789012:certificate/abc",
		BucketName:     "code-adjacent-dumbelf",
		DistributionID: "E123EXAMPLE",
	}, site)

	require.Len(t, fake.calls, 1)
	require.Equal(t, "code-adjacent-site-live", aws.ToString(fake.calls[0].StackName))
}

func TestReader_ValidatesStackName(t *testing.T) {
	fake := &fakeAPI{}
	r, err := NewReader(context.Background(), WithAPI(fake))
	require.NoError(t, err)

	_, err = r.Site(context.Background(), "  ")
	require.Error(t, err)
	require.Empty(t, fake.calls)
}

func TestReader_StackNotFound(t *testing.T) {
	fake := &fakeAPI{err: &smithy.GenericAPIError{
		Code:    "ValidationError",
		Message: "Stack with id missing does not exist",
	}}
	r, err := NewReader(context.Background(), WithAPI(fake))
	require.NoError(t, err)

	_, err = r.Site(context.Background(), "missing")
	require.ErrorIs(t, err, ErrStackNotFound)

	fake.err = nil
	fake.out = &cloudformation.DescribeStacksOutput{}
	_, err = r.Site(context.Background(), "missing")
	require.ErrorIs(t, err, ErrStackNotFound)
}

func TestReader_PassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("throttled")
	r, err := NewReader(context.Background(), WithAPI(&fakeAPI{err: boom}))
	require.NoError(t, err)

	_, err = r.Site(context.Background(), "site")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrStackNotFound)
	require.False(t, isStackNotFound(&smithy.GenericAPIError{Code: "ValidationError", Message: "Template format error"}))
}

func TestReader_MissingOutputs(t *testing.T) {
	fake := &fakeAPI{out: stackWithOutputs(map[string]string{
		KeyBucket: "code-adjacent-dumbelf",
	})}
	r, err := NewReader(context.Background(), WithAPI(fake))
	require.NoError(t, err)

	site, err := r.Site(context.Background(), "code-adjacent-site-live")
	require.EqualError(t, err, "outputs: stack code-adjacent-site-live is missing outputs Certificate, DistributionId")
	require.Equal(t, "code-adjacent-dumbelf", site.BucketName)
}

func TestNewReader_WithAWSConfig(t *testing.T) {
	r, err := NewReader(context.Background(), WithAWSConfig(aws.Config{Region: "eu-west-1"}), WithRegion("us-east-1"), nil)
	require.NoError(t, err)
	require.NotNil(t, r)

	var nilReader *reader
	_, err = nilReader.Site(context.Background(), "site")
	require.Error(t, err)
}
