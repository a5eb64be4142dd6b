package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"crosspost/logger"
)

// Bus publishes lifecycle events to Kafka. Publication is best effort:
// callers log failures and continue, the business operation never fails
// because of the bus. A nil *Bus is a no-op, which covers tests and
// deployments without Kafka.
type Bus struct {
	producer *kafka.Producer
}

// New initializes a Kafka producer against the given brokers.
func New(brokers string) (*Bus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	// Drain delivery reports so the producer queue never fills up.
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.ErrorWithFields("event delivery failed", logger.Fields{
						"topic": topicName(ev),
						"error": ev.TopicPartition.Error.Error(),
					})
				}
			case kafka.Error:
				logger.ErrorWithFields("kafka error", logger.Fields{
					"error": ev.Error(),
				})
			}
		}
	}()

	return &Bus{producer: p}, nil
}

func topicName(m *kafka.Message) string {
	if m.TopicPartition.Topic != nil {
		return *m.TopicPartition.Topic
	}
	return ""
}

// Publish serializes the event and hands it to the producer queue. It
// does not wait for the delivery report.
func (b *Bus) Publish(ctx context.Context, topic string, key string, event any) error {
	if b == nil || b.producer == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return b.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          data,
	}, nil)
}

// Close flushes pending messages and shuts the producer down.
func (b *Bus) Close() {
	if b == nil || b.producer == nil {
		return
	}
	if remaining := b.producer.Flush(5000); remaining > 0 {
		logger.WarnWithFields("messages still queued after flush", logger.Fields{
			"remaining": remaining,
		})
	}
	b.producer.Close()
}
