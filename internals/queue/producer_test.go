package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopPublisherSatisfiesPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(TopicNotificationEmail, map[string]string{"to": "a@b.c"}))
}

func TestNewProducerFailsWithoutDaemon(t *testing.T) {
	// nothing listens on port 1
	p, err := NewProducer("127.0.0.1:1")
	assert.Error(t, err)
	assert.Nil(t, p)
}
