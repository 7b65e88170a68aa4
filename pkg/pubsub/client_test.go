package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	assert.Equal(t, "projects/p1/topics/domain", TopicResourceName("p1", "domain"))
	assert.Equal(t, "projects/other/topics/t", TopicResourceName("p1", "projects/other/topics/t"))
	assert.Empty(t, TopicResourceName("p1", "  "))
}

func TestNewClientValidatesConfig(t *testing.T) {
	_, err := NewClient(context.Background(), config.PubSubConfig{DomainTopic: "domain"}, nil)
	assert.ErrorIs(t, err, errProjectIDRequired)

	_, err = NewClient(context.Background(), config.PubSubConfig{ProjectID: "p1"}, nil)
	assert.ErrorIs(t, err, errTopicRequired)
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	assert.Nil(t, c.DomainPublisher())
	assert.Error(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
