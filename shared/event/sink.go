package event

import (
	"context"
	"encoding/json"
	"fmt"
	"pos/infras/kafka"
	"pos/infras/nats"
)

type kafkaSink struct {
	client kafka.Client
	topic  string
}

// NewKafkaSink keys each message by audience so one audience stays ordered within a partition.
func NewKafkaSink(client kafka.Client, topic string) Sink {
	return &kafkaSink{client: client, topic: topic}
}

func (k *kafkaSink) Name() string {
	return DriverKafka
}

func (k *kafkaSink) Publish(ctx context.Context, evt Event) error {
	return k.client.SendMessages(ctx, k.topic, kafka.Message{Key: string(evt.Audience), Value: evt}) //nolint:wrapcheck
}

func (k *kafkaSink) Close() error {
	return k.client.Close() //nolint:wrapcheck
}

type natsSink struct {
	publisher nats.Publisher
	prefix    string
}

func NewNATSSink(publisher nats.Publisher, prefix string) Sink {
	return &natsSink{publisher: publisher, prefix: prefix}
}

func (n *natsSink) Name() string {
	return DriverNATS
}

// Subject returns <prefix>.<audience>.<type>.
func (n *natsSink) Subject(evt Event) string {
	return fmt.Sprintf("%s.%s.%s", n.prefix, evt.Audience, evt.Type)
}

func (n *natsSink) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return n.publisher.Publish(ctx, n.Subject(evt), data) //nolint:wrapcheck
}

func (n *natsSink) Close() error {
	return n.publisher.Close() //nolint:wrapcheck
}
