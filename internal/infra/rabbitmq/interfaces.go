package rabbitmq

import "context"

// EventPublisher sends a domain event to the broker under a routing pattern.
type EventPublisher interface {
	Publish(ctx context.Context, pattern string, data any) error
}

var _ EventPublisher = (*Publisher)(nil)
