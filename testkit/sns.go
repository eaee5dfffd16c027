package testkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSPublishCall is one accepted publish.
type SNSPublishCall struct {
	TopicARN string
	Subject  string
	Message  string
}

// FakeSNSClient stands in for the SNS client behind failure notifications.
// Set PublishErr to make every publish fail.
type FakeSNSClient struct {
	PublishErr error

	mu    sync.Mutex
	calls []SNSPublishCall
}

func NewFakeSNSClient() *FakeSNSClient {
	return &FakeSNSClient{}
}

func (f *FakeSNSClient) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	switch {
	case f == nil:
		return nil, errors.New("testkit: nil sns client")
	case in == nil || strings.TrimSpace(aws.ToString(in.TopicArn)) == "":
		return nil, errors.New("testkit: publish without a topic")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishErr != nil {
		return nil, f.PublishErr
	}
	f.calls = append(f.calls, SNSPublishCall{
		TopicARN: aws.ToString(in.TopicArn),
		Subject:  aws.ToString(in.Subject),
		Message:  aws.ToString(in.Message),
	})
	return &sns.PublishOutput{MessageId: aws.String(fmt.Sprintf("msg-%d", len(f.calls)))}, nil
}

func (f *FakeSNSClient) Calls() []SNSPublishCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SNSPublishCall(nil), f.calls...)
}

// LastMessage decodes the JSON body of the latest publish into out.
func (f *FakeSNSClient) LastMessage(out any) error {
	calls := f.Calls()
	if len(calls) == 0 {
		return errors.New("testkit: nothing published")
	}
	return json.Unmarshal([]byte(calls[len(calls)-1].Message), out)
}
