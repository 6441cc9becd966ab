package publishers

import (
	"context"
	"encoding/json"
	"fmt"
)

// Attribute keys set on every queued page message. Consumers subscribe on
// these without decoding the body.
const (
	AttrPage   = "page"
	AttrTopic  = "topic"
	AttrMedium = "medium"
)

// pageMessage is an Event encoded for a queue provider.
type pageMessage struct {
	EventID    string
	Body       []byte
	Attributes map[string]string
}

// newPageMessage marshals evt and derives its routing attributes. Empty
// filters are left out so a subscription on "medium" never matches "".
func newPageMessage(evt Event) (pageMessage, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return pageMessage{}, fmt.Errorf("marshal event: %w", err)
	}

	attrs := map[string]string{AttrPage: evt.Page}
	if topic := evt.Topic(); topic != "" {
		attrs[AttrTopic] = topic
	}
	if medium := evt.Filters["medium"]; medium != "" {
		attrs[AttrMedium] = medium
	}
	return pageMessage{EventID: evt.ID, Body: body, Attributes: attrs}, nil
}

// queueSender delivers an encoded page message to one provider.
type queueSender interface {
	Send(ctx context.Context, msg pageMessage) (messageID string, err error)
	Close() error
}

// queuePublisher relays page events through a cloud queue provider.
type queuePublisher struct {
	id       string
	typ      string
	provider string
	sender   queueSender
	log      Logger
}

func newQueuePublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("publisher %q missing queue configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		sender queueSender
		err    error
	)
	switch cfg.Queue.Provider {
	case QueueProviderAWSSQS:
		sender, err = newAWSSQSSender(ctx, cfg.Queue.SQS)
	case QueueProviderAWSSNS:
		sender, err = newAWSSNSSender(ctx, cfg.Queue.SNS)
	case QueueProviderGCP:
		sender, err = newGCPPubSubSender(ctx, cfg.Queue.GCP)
	default:
		err = fmt.Errorf("queue provider %q is not supported", cfg.Queue.Provider)
	}
	if err != nil {
		return nil, err
	}

	return &queuePublisher{
		id:       cfg.ID,
		typ:      cfg.Type,
		provider: cfg.Queue.Provider,
		sender:   sender,
		log:      ensureLogger(log),
	}, nil
}

func (p *queuePublisher) ID() string   { return p.id }
func (p *queuePublisher) Type() string { return p.typ }
func (p *queuePublisher) Close() error { return p.sender.Close() }

// Publish encodes the page event once and hands it to the provider.
func (p *queuePublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := newPageMessage(evt)
	if err != nil {
		return err
	}

	msgID, err := p.sender.Send(ctx, msg)
	if err != nil {
		p.log.ErrorObj("queue publisher send failed", "publisher_queue_error", map[string]any{
			"publisher_id": p.id,
			"provider":     p.provider,
			"event_id":     msg.EventID,
			"page":         evt.Page,
			"error":        err.Error(),
		})
		return fmt.Errorf("queue provider %s send failed: %w", p.provider, err)
	}

	p.log.DebugObj("queue publisher delivered page", "publisher_queue_delivery", map[string]any{
		"publisher_id": p.id,
		"provider":     p.provider,
		"event_id":     msg.EventID,
		"message_id":   msgID,
		"attributes":   msg.Attributes,
	})
	return nil
}
