package handlers

import (
	"context"
	"net/http"
	"strconv"

	"tindog-backend/internal/middleware"
	"tindog-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ChatAPI is the messaging service used by ChatHandler
type ChatAPI interface {
	GetChat(ctx context.Context, chatID, callerID string) (*models.Chat, error)
	ListMessages(ctx context.Context, chatID, callerID string, limit int) ([]*models.Message, error)
	Send(ctx context.Context, chatID, callerID, text string) (*models.Message, error)
}

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chatService ChatAPI
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService ChatAPI) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// SendMessageRequest represents the request body for a new chat message
type SendMessageRequest struct {
	Text string `json:"text"`
}

// GetChat handles GET /api/v1/chats/{chat_id}
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	chatID := chi.URLParam(r, "chat_id")

	chat, err := h.chatService.GetChat(ctx, chatID, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("chat_id", chatID).
			Msg("Failed to get chat")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, chat)
}

// GetMessages handles GET /api/v1/chats/{chat_id}/messages
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	chatID := chi.URLParam(r, "chat_id")

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil {
			limit = parsedLimit
		}
	}

	messages, err := h.chatService.ListMessages(ctx, chatID, userID, limit)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("chat_id", chatID).
			Msg("Failed to get messages")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// SendMessage handles POST /api/v1/chats/{chat_id}/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	chatID := chi.URLParam(r, "chat_id")

	var req SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.chatService.Send(ctx, chatID, userID, req.Text)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("chat_id", chatID).
			Msg("Failed to send message")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("chat_id", chatID).
		Str("message_id", msg.ID).
		Msg("Message sent")

	respondJSON(w, http.StatusCreated, msg)
}
