package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsClient is the subset of the SNS client the sender uses.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type awsSNSSender struct {
	topicARN string
	client   snsClient
}

func newAWSSNSSender(ctx context.Context, cfg *AWSSNSPublisherConfig) (queueSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("aws sns configuration is missing")
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.Region, cfg.AccessKeyID, cfg.SecretAccessKey)
	if err != nil {
		return nil, err
	}
	return &awsSNSSender{topicARN: cfg.TopicARN, client: sns.NewFromConfig(awsCfg)}, nil
}

func snsAttributes(attrs map[string]string) map[string]types.MessageAttributeValue {
	out := make(map[string]types.MessageAttributeValue, len(attrs))
	for k, v := range attrs {
		out[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}
	return out
}

func (s *awsSNSSender) Send(ctx context.Context, msg pageMessage) (string, error) {
	resp, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(s.topicARN),
		Message:           aws.String(string(msg.Body)),
		MessageAttributes: snsAttributes(msg.Attributes),
	})
	if err != nil {
		return "", fmt.Errorf("send message to sns: %w", err)
	}
	return aws.ToString(resp.MessageId), nil
}

func (s *awsSNSSender) Close() error { return nil }
