package broker

import (
	"context"
)

// Handler receives the raw JSON payload published on a topic.
// Delivery is synchronous; handlers must not block.
type Handler func(payload []byte)

type ConnState int32

const (
	Disconnected ConnState = iota
	Connected
)

func (s ConnState) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Broker fans application events out to subscribers addressed by
// exact topic string. At-most-once: no buffering, no replay, a
// publish to zero subscribers is a no-op.
type Broker interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(topic string, h Handler) (unsubscribe func())
	State() ConnState
	OnStateChange(fn func(ConnState)) (remove func())
	Close() error
}

// AddTopic is the key creation events are published on for a scope
// (a channel or a conversation).
func AddTopic(scopeID string) string {
	return "chat:" + scopeID + ":messages"
}

// UpdateTopic is the key edit and soft-delete events share. Subscribers
// match deletions by id, not by a separate event type.
func UpdateTopic(scopeID string) string {
	return "chat:" + scopeID + ":messages:update"
}
