package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"ms-bakery/internal/config"
	"ms-bakery/internal/models"
)

// Producer publishes order lifecycle events. Topics come from config so the
// same writer serves both the created and status streams.
type Producer struct {
	Writer *kafka.Writer
	Topics config.TopicConfig
}

func NewProducer(brokers []string, topics config.TopicConfig) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer, Topics: topics}
}

// Publish writes a raw message to the given topic.
func (p *Producer) Publish(topic string, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

// PublishOrderCreated streams the order creation event to Kafka
func (p *Producer) PublishOrderCreated(event models.OrderCreatedEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(p.Topics.OrderCreated, event.OrderID, msgBytes)
}

// PublishOrderStatusChanged streams a board move to Kafka
func (p *Producer) PublishOrderStatusChanged(event models.OrderStatusEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(p.Topics.OrderStatus, event.OrderID, msgBytes)
}

// Close gracefully shuts down the Kafka writer
func (p *Producer) Close() error {
	return p.Writer.Close()
}
