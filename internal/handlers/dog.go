package handlers

import (
	"context"
	"net/http"

	"tindog-backend/internal/middleware"
	"tindog-backend/internal/models"
	"tindog-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// DogAPI is the dog profile service used by DogHandler
type DogAPI interface {
	FindUnseen(ctx context.Context, dogID, callerID string) ([]*models.Dog, error)
	Create(ctx context.Context, callerID string, req services.CreateDogRequest) (*models.Dog, error)
	Get(ctx context.Context, dogID, callerID string) (*models.Dog, error)
	Update(ctx context.Context, dogID, callerID string, req services.UpdateDogRequest) (*models.Dog, error)
	MarkSeen(ctx context.Context, dogID, callerID string, seenIDs []string) ([]string, error)
}

// DogHandler handles dog-related HTTP requests
type DogHandler struct {
	dogService DogAPI
}

// NewDogHandler creates a new dog handler
func NewDogHandler(dogService DogAPI) *DogHandler {
	return &DogHandler{
		dogService: dogService,
	}
}

// UnseenRequest represents the request body for listing unseen dogs
type UnseenRequest struct {
	DogID string `json:"dogId"`
}

// MarkSeenRequest represents the request body for recording viewed dogs
type MarkSeenRequest struct {
	DogIDs []string `json:"dogIds"`
}

// FindUnseen handles POST /api/v1/dogs/unseen
func (h *DogHandler) FindUnseen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UnseenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dogs, err := h.dogService.FindUnseen(ctx, req.DogID, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("dog_id", req.DogID).
			Msg("Failed to get unseen dogs")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dogs)
}

// CreateDog handles POST /api/v1/dogs
func (h *DogHandler) CreateDog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.CreateDogRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dog, err := h.dogService.Create(ctx, userID, req)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to create dog")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("dog_id", dog.ID).
		Msg("Dog created")

	respondJSON(w, http.StatusCreated, dog)
}

// GetDog handles GET /api/v1/dogs/{dog_id}
func (h *DogHandler) GetDog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	dogID := chi.URLParam(r, "dog_id")

	dog, err := h.dogService.Get(ctx, dogID, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("dog_id", dogID).
			Msg("Failed to get dog")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dog)
}

// UpdateDog handles PATCH /api/v1/dogs/{dog_id}
func (h *DogHandler) UpdateDog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	dogID := chi.URLParam(r, "dog_id")

	var req services.UpdateDogRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dog, err := h.dogService.Update(ctx, dogID, userID, req)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("dog_id", dogID).
			Msg("Failed to update dog")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("dog_id", dogID).
		Msg("Dog updated")

	respondJSON(w, http.StatusOK, dog)
}

// MarkSeen handles POST /api/v1/dogs/{dog_id}/seen
func (h *DogHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	dogID := chi.URLParam(r, "dog_id")

	var req MarkSeenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	seen, err := h.dogService.MarkSeen(ctx, dogID, userID, req.DogIDs)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("dog_id", dogID).
			Msg("Failed to mark dogs as seen")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"seen": seen,
	})
}
