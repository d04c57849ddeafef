package queue

import (
	"encoding/json"
	"fmt"

	"github.com/nsqio/go-nsq"
	log "github.com/sirupsen/logrus"
)

const (
	TopicNotificationEmail    = "notification.email"
	TopicPaymentStatusChanged = "payment.status_changed"
)

// Publisher is what feature services depend on; Producer and NopPublisher satisfy it.
type Publisher interface {
	Publish(topic string, message interface{}) error
}

// Producer handles publishing messages to NSQ topics
type Producer struct {
	producer *nsq.Producer
}

// NewProducer creates a new NSQ producer and pings nsqd.
func NewProducer(address string) (*Producer, error) {
	config := nsq.NewConfig()
	producer, err := nsq.NewProducer(address, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}
	if err := producer.Ping(); err != nil {
		producer.Stop()
		return nil, fmt.Errorf("failed to ping NSQ daemon: %w", err)
	}
	return &Producer{producer: producer}, nil
}

func (p *Producer) Publish(topic string, message interface{}) error {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := p.producer.Publish(topic, msgBytes); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	log.WithField("topic", topic).Debug("[NSQ] published")
	return nil
}

func (p *Producer) Stop() {
	p.producer.Stop()
}

// NopPublisher drops messages; used when NSQD_ADDR is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(topic string, message interface{}) error {
	log.WithField("topic", topic).Debug("[NSQ] disabled, message dropped")
	return nil
}
