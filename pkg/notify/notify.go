// Package notify reports failed synths to an SNS topic.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/theory-cloud/sitetheory/pkg/sanitization"
)

const (
	EnvTopicARN = "SITETHEORY_ERROR_TOPIC_ARN"
	EnvSubject  = "SITETHEORY_ERROR_SUBJECT"

	DefaultSubject = "sitetheory synth failed"

	// SNS limits.
	maxSubjectLen = 100
	maxMessageLen = 256 * 1024
)

// Build environment variables copied into every report.
var buildEnv = []string{"CDK_DEFAULT_ACCOUNT", "CDK_DEFAULT_REGION", "CODEBUILD_BUILD_ID", "GITHUB_RUN_ID"}

// Failure describes one synth that declared nothing.
type Failure struct {
	StackID string            `json:"stack_id"`
	Code    string            `json:"code,omitempty"`
	Error   string            `json:"error"`
	Env     map[string]string `json:"env,omitempty"`
}

type Notifier interface {
	SynthFailed(ctx context.Context, f Failure) error
}

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNS publishes each failure as one JSON message.
type SNS struct {
	client   snsPublisher
	topicARN string
	subject  string
}

var _ Notifier = (*SNS)(nil)

func NewSNS(client snsPublisher, topicARN, subject string) *SNS {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = DefaultSubject
	}
	return &SNS{client: client, topicARN: strings.TrimSpace(topicARN), subject: subject}
}

// FromEnv returns an SNS notifier for the topic named by SITETHEORY_ERROR_TOPIC_ARN,
// or nil when it is unset.
func FromEnv(ctx context.Context, lookup func(string) (string, bool)) (*SNS, error) {
	topicARN, _ := lookup(EnvTopicARN)
	if strings.TrimSpace(topicARN) == "" {
		return nil, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	subject, _ := lookup(EnvSubject)
	return NewSNS(sns.NewFromConfig(cfg), topicARN, subject), nil
}

// CaptureEnv collects the build variables that are set.
func CaptureEnv(lookup func(string) (string, bool)) map[string]string {
	out := map[string]string{}
	for _, key := range buildEnv {
		if value, ok := lookup(key); ok && value != "" {
			out[strings.ToLower(key)] = value
		}
	}
	return out
}

func (n *SNS) SynthFailed(ctx context.Context, f Failure) error {
	if n.topicARN == "" {
		return errors.New("notify: sns topic arn is empty")
	}

	f.Error = sanitization.Line(f.Error)
	env := make(map[string]string, len(f.Env))
	for k, v := range f.Env {
		env[k] = sanitization.Value(k, v).(string)
	}
	f.Env = env

	body, err := json.Marshal(f)
	if err != nil {
		return err
	}
	message := string(body)
	if len(message) > maxMessageLen {
		message = message[:maxMessageLen]
	}

	subject := sanitization.Line(n.subject)
	if len(subject) > maxSubjectLen {
		subject = subject[:maxSubjectLen]
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	return err
}
