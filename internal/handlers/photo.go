package handlers

import (
	"context"
	"net/http"

	"tindog-backend/internal/middleware"
	"tindog-backend/internal/models"
	"tindog-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PhotoAPI is the photo service used by PhotoHandler
type PhotoAPI interface {
	GetUploadURL(ctx context.Context, caller services.Caller, contentType string) (*services.UploadResponse, error)
	Classify(ctx context.Context, caller services.Caller, filePath string) (*models.DogData, error)
}

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService PhotoAPI
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService PhotoAPI) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// UploadRequest represents the request body for a photo upload URL
type UploadRequest struct {
	ContentType string `json:"contentType"`
}

// ClassifyRequest represents the request body for classifying a stored photo
type ClassifyRequest struct {
	FilePath string `json:"filePath"`
}

// UploadPhoto handles POST /api/v1/photos/upload
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetCaller(ctx)

	var req UploadRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.ContentType == "" {
		req.ContentType = "image/jpeg" // Default
	}

	response, err := h.photoService.GetUploadURL(ctx, caller, req.ContentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", caller.UserID).
			Str("content_type", req.ContentType).
			Msg("Failed to generate pre-signed URL")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", caller.UserID).
		Str("file_path", response.FilePath).
		Msg("Pre-signed URL generated")

	respondJSON(w, http.StatusOK, response)
}

// ClassifyPhoto handles POST /api/v1/photos/classify
func (h *PhotoHandler) ClassifyPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetCaller(ctx)

	var req ClassifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	data, err := h.photoService.Classify(ctx, caller, req.FilePath)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", caller.UserID).
			Str("file_path", req.FilePath).
			Msg("Failed to classify photo")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, data)
}
