package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"tindog-backend/internal/apperr"
	"tindog-backend/internal/models"
	"tindog-backend/internal/repository"

	"github.com/google/uuid"
)

// DogStore is the profile storage used by the services
type DogStore interface {
	Create(ctx context.Context, dog *models.Dog) error
	GetByID(ctx context.Context, id string) (*models.Dog, error)
	ListExcept(ctx context.Context, excluded []string) ([]*models.Dog, error)
	Update(ctx context.Context, dog *models.Dog) error
	AppendSeen(ctx context.Context, dogID string, ids []string) ([]string, error)
}

// DogService handles dog profile business logic
type DogService struct {
	dogs DogStore
	now  func() time.Time
}

// NewDogService creates a new dog service
func NewDogService(dogs DogStore) *DogService {
	return &DogService{dogs: dogs, now: time.Now}
}

// CreateDogRequest is the input for a new dog profile
type CreateDogRequest struct {
	Name        string       `json:"name" validate:"required,max=100"`
	Breed       *string      `json:"breed,omitempty" validate:"omitempty,min=1"`
	Size        *models.Size `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	Description *string      `json:"description,omitempty" validate:"omitempty,min=1"`
	FilePath    string       `json:"filePath"`
}

// UpdateDogRequest is a partial update; nil fields are left untouched
type UpdateDogRequest struct {
	UserID      *string      `json:"userId,omitempty"`
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Breed       *string      `json:"breed,omitempty" validate:"omitempty,min=1"`
	Size        *models.Size `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	Description *string      `json:"description,omitempty" validate:"omitempty,min=1"`
	FilePath    *string      `json:"filePath,omitempty"`
}

// FindUnseen returns every dog other than dogID that dogID's owner has not seen yet
func (s *DogService) FindUnseen(ctx context.Context, dogID, callerID string) ([]*models.Dog, error) {
	if callerID == "" {
		return nil, errUnauthenticated
	}
	if dogID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "The function must be called with a valid dog Id.")
	}

	dog, err := s.dogs.GetByID(ctx, dogID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.InvalidArgument, "The function must be called with valid dog Id.")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load dog", err)
	}

	if dog.UserID != callerID {
		return nil, apperr.New(apperr.PermissionDenied, "The dog does not belong to the authenticated user.")
	}

	excluded := make([]string, 0, len(dog.Seen)+1)
	excluded = append(excluded, dog.Seen...)
	excluded = append(excluded, dog.ID)

	unseen, err := s.dogs.ListExcept(ctx, excluded)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list dogs", err)
	}
	return unseen, nil
}

// Create stores a new dog owned by the caller
func (s *DogService) Create(ctx context.Context, callerID string, req CreateDogRequest) (*models.Dog, error) {
	if callerID == "" {
		return nil, errUnauthenticated
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.InvalidArgument, describeValidation(err), err)
	}

	now := s.now()
	dog := &models.Dog{
		ID:          uuid.New().String(),
		UserID:      callerID,
		Name:        req.Name,
		Breed:       req.Breed,
		Size:        req.Size,
		Description: req.Description,
		FilePath:    req.FilePath,
		Seen:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.dogs.Create(ctx, dog); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create dog", err)
	}
	return dog, nil
}

// Get returns a single dog to any authenticated caller
func (s *DogService) Get(ctx context.Context, dogID, callerID string) (*models.Dog, error) {
	if callerID == "" {
		return nil, errUnauthenticated
	}
	return s.load(ctx, dogID)
}

// Update applies a partial update to a dog owned by the caller
func (s *DogService) Update(ctx context.Context, dogID, callerID string, req UpdateDogRequest) (*models.Dog, error) {
	if callerID == "" {
		return nil, errUnauthenticated
	}
	if err := validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.InvalidArgument, describeValidation(err), err)
	}

	dog, err := s.loadOwned(ctx, dogID, callerID)
	if err != nil {
		return nil, err
	}

	if req.UserID != nil && *req.UserID != dog.UserID {
		return nil, apperr.New(apperr.InvalidArgument, "userId cannot be changed")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.New(apperr.InvalidArgument, "Name must not be empty")
		}
		dog.Name = name
	}
	if req.Breed != nil {
		dog.Breed = req.Breed
	}
	if req.Size != nil {
		dog.Size = req.Size
	}
	if req.Description != nil {
		dog.Description = req.Description
	}
	if req.FilePath != nil {
		dog.FilePath = *req.FilePath
	}
	dog.UpdatedAt = s.now()

	if err := s.dogs.Update(ctx, dog); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update dog", err)
	}
	return dog, nil
}

// MarkSeen records that the owner of dogID has viewed the given profiles
func (s *DogService) MarkSeen(ctx context.Context, dogID, callerID string, seenIDs []string) ([]string, error) {
	if callerID == "" {
		return nil, errUnauthenticated
	}
	if len(seenIDs) == 0 {
		return nil, apperr.New(apperr.InvalidArgument, "at least one dog id is required")
	}
	for _, id := range seenIDs {
		if id == "" || id == dogID {
			return nil, apperr.New(apperr.InvalidArgument, "seen ids must be non-empty and differ from the dog itself")
		}
	}

	if _, err := s.loadOwned(ctx, dogID, callerID); err != nil {
		return nil, err
	}

	seen, err := s.dogs.AppendSeen(ctx, dogID, seenIDs)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update seen dogs", err)
	}
	return seen, nil
}

func (s *DogService) load(ctx context.Context, dogID string) (*models.Dog, error) {
	if dogID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "dog id is required")
	}
	dog, err := s.dogs.GetByID(ctx, dogID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "dog not found", err)
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load dog", err)
	}
	return dog, nil
}

func (s *DogService) loadOwned(ctx context.Context, dogID, callerID string) (*models.Dog, error) {
	dog, err := s.load(ctx, dogID)
	if err != nil {
		return nil, err
	}
	if dog.UserID != callerID {
		return nil, apperr.New(apperr.PermissionDenied, "The dog does not belong to the authenticated user.")
	}
	return dog, nil
}
