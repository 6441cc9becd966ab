package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// sqsClient is the subset of the SQS client the sender uses.
type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type awsSQSSender struct {
	queueURL string
	client   sqsClient
}

// loadAWSConfig resolves an aws.Config with static credentials.
func loadAWSConfig(ctx context.Context, region, keyID, secret string) (aws.Config, error) {
	creds := credentials.NewStaticCredentialsProvider(keyID, secret, "")
	cfg, err := awscfg.LoadDefaultConfig(ctx,
		awscfg.WithRegion(region),
		awscfg.WithCredentialsProvider(creds),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

func newAWSSQSSender(ctx context.Context, cfg *AWSSQSPublisherConfig) (queueSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("aws sqs configuration is missing")
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.Region, cfg.AccessKeyID, cfg.SecretAccessKey)
	if err != nil {
		return nil, err
	}
	return &awsSQSSender{queueURL: cfg.QueueURL, client: sqs.NewFromConfig(awsCfg)}, nil
}

func sqsAttributes(attrs map[string]string) map[string]types.MessageAttributeValue {
	out := make(map[string]types.MessageAttributeValue, len(attrs))
	for k, v := range attrs {
		out[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}
	return out
}

func (s *awsSQSSender) Send(ctx context.Context, msg pageMessage) (string, error) {
	resp, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queueURL),
		MessageBody:       aws.String(string(msg.Body)),
		MessageAttributes: sqsAttributes(msg.Attributes),
	})
	if err != nil {
		return "", fmt.Errorf("send message to sqs: %w", err)
	}
	return aws.ToString(resp.MessageId), nil
}

func (s *awsSQSSender) Close() error { return nil }
