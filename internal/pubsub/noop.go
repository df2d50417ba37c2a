package pubsub

import (
	"context"

	"github.com/charmbracelet/log"
)

type noop struct{}

// NewNoop returns a client that only logs, for deployments without Pub/Sub.
func NewNoop() PubSubClient {
	return noop{}
}

func (noop) SendMessage(ctx context.Context, topic EventType, data any) error {
	log.Debug("Pub/Sub disabled, dropping message", "topic", topic)
	return nil
}

func (noop) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

func (noop) Close() error { return nil }
