package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"tindog-backend/internal/apperr"
	"tindog-backend/internal/events"
	"tindog-backend/internal/models"
	"tindog-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	maxMessageLength    = 2000
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

// MessageStore is the message storage used by the services
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	ListByChatID(ctx context.Context, chatID string, limit int) ([]*models.Message, error)
}

// MessageService handles chat reads, new messages and the last-message fan-out
type MessageService struct {
	chats     ChatStore
	messages  MessageStore
	publisher events.Publisher
	now       func() time.Time
}

// NewMessageService creates a new message service
func NewMessageService(chats ChatStore, messages MessageStore, publisher events.Publisher) *MessageService {
	return &MessageService{
		chats:     chats,
		messages:  messages,
		publisher: publisher,
		now:       time.Now,
	}
}

// GetChat returns a chat to one of its participants
func (s *MessageService) GetChat(ctx context.Context, chatID, callerID string) (*models.Chat, error) {
	if callerID == "" {
		return nil, errUnauthenticated
	}
	if chatID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "chat id is required")
	}

	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "chat not found", err)
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load chat", err)
	}

	if !chat.HasParticipant(callerID) {
		return nil, apperr.New(apperr.PermissionDenied, "The chat does not belong to the authenticated user.")
	}
	return chat, nil
}

// ListMessages returns the oldest limit messages of a chat to one of its participants
func (s *MessageService) ListMessages(ctx context.Context, chatID, callerID string, limit int) ([]*models.Message, error) {
	if _, err := s.GetChat(ctx, chatID, callerID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	messages, err := s.messages.ListByChatID(ctx, chatID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load messages", err)
	}
	return messages, nil
}

// Send stores a new message from the caller and publishes message.created
func (s *MessageService) Send(ctx context.Context, chatID, callerID, text string) (*models.Message, error) {
	chat, err := s.GetChat(ctx, chatID, callerID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.New(apperr.InvalidArgument, "text is required")
	}
	if len(text) > maxMessageLength {
		return nil, apperr.New(apperr.InvalidArgument, "text is too long")
	}

	msg := &models.Message{
		ID:        uuid.New().String(),
		ChatID:    chat.ID,
		UserID:    callerID,
		Text:      text,
		Read:      false,
		Timestamp: s.now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create message", err)
	}

	evt := events.MessageCreated{ChatID: msg.ChatID, MessageID: msg.ID, Message: msg}
	if err := s.publisher.PublishMessageCreated(ctx, evt); err != nil {
		log.Error().
			Err(err).
			Str("chat_id", msg.ChatID).
			Str("message_id", msg.ID).
			Msg("Failed to publish message.created")
	}

	return msg, nil
}

// FanOut copies a newly created message into its chat's lastMessage
func (s *MessageService) FanOut(ctx context.Context, evt *events.MessageCreated) error {
	if evt == nil || evt.Message == nil {
		log.Info().Msg("No data associated with the event")
		return nil
	}

	chatID := evt.ChatID
	if chatID == "" {
		chatID = evt.Message.ChatID
	}

	last := models.LastMessage{
		UserID:    evt.Message.UserID,
		Text:      evt.Message.Text,
		Timestamp: evt.Message.Timestamp,
		Read:      false,
	}

	if err := s.chats.UpdateLastMessage(ctx, chatID, last); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn().Str("chat_id", chatID).Msg("Chat of new message does not exist")
			return nil
		}
		return err
	}

	// TODO: notify the other participant once push delivery exists
	log.Debug().Str("chat_id", chatID).Str("message_id", evt.MessageID).Msg("Last message updated")
	return nil
}
