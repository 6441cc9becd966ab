package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

type gcpPubSubSender struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func newGCPPubSubSender(ctx context.Context, cfg *GCPQueueConfig, extra ...option.ClientOption) (queueSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gcp queue configuration is missing")
	}

	opts := append([]option.ClientOption(nil), extra...)
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return &gcpPubSubSender{client: client, topic: client.Topic(cfg.Topic)}, nil
}

func (s *gcpPubSubSender) Send(ctx context.Context, msg pageMessage) (string, error) {
	id, err := s.topic.Publish(ctx, &pubsub.Message{Data: msg.Body, Attributes: msg.Attributes}).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("send message to pubsub: %w", err)
	}
	return id, nil
}

// Close flushes pending messages and releases the client.
func (s *gcpPubSubSender) Close() error {
	s.topic.Stop()
	return s.client.Close()
}
