// Package events carries the message.created trigger from the request path to
// its background consumers, either over NATS JetStream or in-process.
package events

import (
	"context"

	"tindog-backend/internal/models"
)

// SubjectMessageCreated is published once per stored chat message
const SubjectMessageCreated = "events.message.created"

// MessageCreated is the payload of SubjectMessageCreated
type MessageCreated struct {
	ChatID    string          `json:"chatId"`
	MessageID string          `json:"messageId"`
	Message   *models.Message `json:"message,omitempty"`
}

// Handler processes one event. A nil event means the trigger fired without a payload.
type Handler func(ctx context.Context, evt *MessageCreated) error

// Publisher sends events to whoever consumes them
type Publisher interface {
	PublishMessageCreated(ctx context.Context, evt MessageCreated) error
}
