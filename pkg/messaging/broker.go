package messaging

import (
	"context"
)

// Broker publishes outbox events to downstream consumers. Subscribing
// is left to those consumers' own clients.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}
