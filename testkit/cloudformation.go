package testkit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
)

// FakeCloudFormationClient answers DescribeStacks from an in-memory set of stacks.
//
// Unknown stacks fail the way CloudFormation does: a ValidationError saying the stack does not exist.
type FakeCloudFormationClient struct {
	mu sync.Mutex

	stacks map[string]types.Stack

	// Described records every stack name asked for.
	Described []string

	DescribeErr error
}

func NewFakeCloudFormationClient() *FakeCloudFormationClient {
	return &FakeCloudFormationClient{stacks: map[string]types.Stack{}}
}

// PutStack stores a stack with the given status and outputs, replacing any previous one.
func (f *FakeCloudFormationClient) PutStack(name string, status types.StackStatus, outputs map[string]string) {
	stack := types.Stack{
		StackName:   aws.String(name),
		StackStatus: status,
	}
	for key, value := range outputs {
		stack.Outputs = append(stack.Outputs, types.Output{
			OutputKey:   aws.String(key),
			OutputValue: aws.String(value),
		})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stacks == nil {
		f.stacks = map[string]types.Stack{}
	}
	f.stacks[name] = stack
}

func (f *FakeCloudFormationClient) DescribeStacks(
	_ context.Context,
	params *cloudformation.DescribeStacksInput,
	_ ...func(*cloudformation.Options),
) (*cloudformation.DescribeStacksOutput, error) {
	if f == nil {
		return nil, errors.New("testkit: cloudformation client is nil")
	}
	if params == nil {
		return nil, errors.New("testkit: describe stacks input is nil")
	}
	name := strings.TrimSpace(aws.ToString(params.StackName))

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Described = append(f.Described, name)
	if f.DescribeErr != nil {
		return nil, f.DescribeErr
	}

	stack, ok := f.stacks[name]
	if !ok {
		return nil, &smithy.GenericAPIError{
			Code:    "ValidationError",
			Message: fmt.Sprintf("Stack with id %s does not exist", name),
			Fault:   smithy.FaultClient,
		}
	}
	return &cloudformation.DescribeStacksOutput{Stacks: []types.Stack{stack}}, nil
}
