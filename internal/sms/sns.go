// Package sms implements the domain.SMSSender interface using AWS SNS.
package sms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// snsAPI defines the SNS operations used by Sender. This interface enables
// testing with mock implementations.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// ClientConfig holds the parameters for connecting to AWS SNS.
type ClientConfig struct {
	// Region is the AWS region used for publishing.
	Region string

	// AccessKey and SecretKey are optional static credentials. When
	// both are empty the SDK's default credential chain is used.
	AccessKey string
	SecretKey string
}

// Sender publishes SMS messages directly to phone numbers via AWS SNS.
type Sender struct {
	client snsAPI
}

// New creates a Sender from the given configuration.
func New(ctx context.Context, cfg ClientConfig) (*Sender, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("sms: region is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sms: load aws config: %w", err)
	}

	return &Sender{client: sns.NewFromConfig(awsCfg)}, nil
}

// newWithClient creates a Sender with a custom client, primarily for tests.
func newWithClient(client snsAPI) *Sender {
	return &Sender{client: client}
}

// Send publishes text as an SMS to the given phone number. One call per
// recipient, no batching; the provider gives no ordering guarantee across
// calls.
func (s *Sender) Send(ctx context.Context, phoneNumber, text string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(text),
	})
	if err != nil {
		return fmt.Errorf("sms: publish: %w", err)
	}
	return nil
}
