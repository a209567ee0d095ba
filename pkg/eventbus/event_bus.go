// Package eventbus provides the publish/subscribe infrastructure carrying
// case lifecycle events between the API, the reminder worker, and any
// downstream notifier.
package eventbus

import (
	"context"

	"github.com/herreralegal/intake/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
