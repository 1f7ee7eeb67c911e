package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// LocalBus delivers events to in-process handlers. It is used when no NATS
// server is configured. Delivery is synchronous, detached from the
// publisher's cancellation, and handler errors are only logged.
type LocalBus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewLocalBus creates an empty in-process bus
func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

// SubscribeMessageCreated registers a handler
func (b *LocalBus) SubscribeMessageCreated(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// PublishMessageCreated runs every registered handler
func (b *LocalBus) PublishMessageCreated(ctx context.Context, evt MessageCreated) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, h := range handlers {
		if err := h(ctx, &evt); err != nil {
			log.Error().Err(err).Str("chat_id", evt.ChatID).Msg("Event handler failed")
		}
	}
	return nil
}
