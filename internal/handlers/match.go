package handlers

import (
	"context"
	"net/http"

	"tindog-backend/internal/middleware"
	"tindog-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// MatchAPI is the match service used by MatchHandler
type MatchAPI interface {
	CreateMatch(ctx context.Context, firstDogID, secondDogID, callerID string) (*models.MatchResult, error)
}

// MatchHandler handles match-related HTTP requests
type MatchHandler struct {
	matchService MatchAPI
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService MatchAPI) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// CreateMatchRequest represents the request body for matching two dogs
type CreateMatchRequest struct {
	FirstDogID  string `json:"firstDogId"`
	SecondDogID string `json:"secondDogId"`
}

// CreateMatch handles POST /api/v1/matches
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.matchService.CreateMatch(ctx, req.FirstDogID, req.SecondDogID, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("first_dog_id", req.FirstDogID).
			Str("second_dog_id", req.SecondDogID).
			Msg("Failed to create match")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("chat_id", result.ChatID).
		Msg("Match created")

	respondJSON(w, http.StatusOK, result)
}
