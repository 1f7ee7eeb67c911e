package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tindog-backend/internal/apperr"
	"tindog-backend/internal/gemini"
	"tindog-backend/internal/models"
	"tindog-backend/internal/storage"
	"tindog-backend/internal/thumbnail"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const uploadURLExpiry = 5 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
}

// ObjectStore is the photo storage used by the services
type ObjectStore interface {
	Stat(ctx context.Context, key string) (*storage.ObjectInfo, error)
	MakePublic(ctx context.Context, key string) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
}

// ImageClassifier describes the dog in an image
type ImageClassifier interface {
	ClassifyImage(ctx context.Context, img gemini.Image, prompt string) (*models.DogData, error)
}

// PhotoService handles dog photo uploads and classification
type PhotoService struct {
	objects    ObjectStore
	classifier ImageClassifier
}

// NewPhotoService creates a new photo service
func NewPhotoService(objects ObjectStore, classifier ImageClassifier) *PhotoService {
	return &PhotoService{
		objects:    objects,
		classifier: classifier,
	}
}

// UploadResponse represents the response with pre-signed URL
type UploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	FilePath  string `json:"filePath"`
	ExpiresIn int    `json:"expiresIn"`
}

// GetUploadURL generates a pre-signed URL for uploading a dog photo
func (s *PhotoService) GetUploadURL(ctx context.Context, caller Caller, contentType string) (*UploadResponse, error) {
	if caller.UserID == "" {
		return nil, errUnauthenticated
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apperr.New(apperr.InvalidArgument, fmt.Sprintf("unsupported content type %q", contentType))
	}

	filePath := "dogs/" + uuid.New().String() + ext
	uploadURL, err := s.objects.PresignUpload(ctx, filePath, contentType, uploadURLExpiry)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create upload URL", err)
	}

	return &UploadResponse{
		UploadURL: uploadURL,
		FilePath:  filePath,
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}

// Classify asks the model what dog is in the stored photo. Any model failure
// deletes the photo and its thumbnail and reports the photo as not a dog.
func (s *PhotoService) Classify(ctx context.Context, caller Caller, filePath string) (*models.DogData, error) {
	if caller.UserID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Authenticated user required to run flow")
	}
	if !caller.EmailVerified {
		return nil, apperr.New(apperr.PermissionDenied, "Verified email required to run flow")
	}
	if filePath == "" {
		return nil, apperr.New(apperr.InvalidArgument, "filePath is required")
	}

	info, err := s.objects.Stat(ctx, filePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "File does not exist", err)
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to read file metadata", err)
	}

	if !strings.HasPrefix(info.ContentType, "image/") {
		return nil, apperr.New(apperr.InvalidArgument, "Provided file is not an image")
	}

	if err := s.objects.MakePublic(ctx, filePath); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to publish file", err)
	}

	data, err := s.classifier.ClassifyImage(ctx, gemini.Image{
		URL:         s.objects.PublicURL(filePath),
		ContentType: info.ContentType,
	}, classifyPrompt)
	if err == nil && data != nil {
		if verr := validate.Struct(data); verr != nil {
			err = fmt.Errorf("model output does not match the dog shape: %s", describeValidation(verr))
		}
	}
	if err != nil {
		s.deleteFiles(ctx, filePath)
		log.Error().Err(err).Str("file_path", filePath).Msg("Error generating dog data")
		return notADog(), nil
	}

	// the photo is kept so the client can still use it for a manual profile
	if data == nil || data.IsDog == nil || !*data.IsDog {
		return notADog(), nil
	}

	return data, nil
}

// deleteFiles removes a photo and its thumbnail, ignoring failures
func (s *PhotoService) deleteFiles(ctx context.Context, filePath string) {
	for _, key := range []string{filePath, thumbnail.Path(filePath)} {
		if err := s.objects.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("file_path", key).Msg("Failed to delete file")
		}
	}
}

func notADog() *models.DogData {
	isDog := false
	return &models.DogData{IsDog: &isDog}
}
