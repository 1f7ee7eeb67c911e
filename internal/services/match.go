package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"tindog-backend/internal/apperr"
	"tindog-backend/internal/models"
	"tindog-backend/internal/repository"
	"tindog-backend/internal/thumbnail"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var errUnauthenticated = apperr.New(apperr.Unauthenticated, "The function must be called while authenticated.")

// ErrMalformedProfile marks a stored dog that does not fit the DogData shape
var ErrMalformedProfile = errors.New("malformed dog profile")

// DogReader loads dog profiles by id
type DogReader interface {
	GetByID(ctx context.Context, id string) (*models.Dog, error)
}

// ChatStore is the chat storage used by the services
type ChatStore interface {
	Create(ctx context.Context, chat *models.Chat) error
	GetByID(ctx context.Context, id string) (*models.Chat, error)
	ExistsForUsers(ctx context.Context, userIDs []string) (bool, error)
	UpdateLastMessage(ctx context.Context, chatID string, msg models.LastMessage) error
}

// TextGenerator produces free text from a prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// MatchService creates chats between the owners of two dogs
type MatchService struct {
	dogs          DogReader
	chats         ChatStore
	generator     TextGenerator
	publicBaseURL string
	bucket        string
	now           func() time.Time
}

// NewMatchService creates a new match service. Thumbnail URLs are rooted at
// publicBaseURL/bucket.
func NewMatchService(dogs DogReader, chats ChatStore, generator TextGenerator, publicBaseURL, bucket string) *MatchService {
	return &MatchService{
		dogs:          dogs,
		chats:         chats,
		generator:     generator,
		publicBaseURL: publicBaseURL,
		bucket:        bucket,
		now:           time.Now,
	}
}

// CreateMatch validates the two dogs, generates an opening message and stores a
// new chat between their owners. The caller must own at least one of the dogs.
func (s *MatchService) CreateMatch(ctx context.Context, firstDogID, secondDogID, callerID string) (*models.MatchResult, error) {
	if callerID == "" {
		return nil, errUnauthenticated
	}
	if firstDogID == "" || secondDogID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "The function must be called with two document IDs.")
	}

	first, second, err := s.loadPair(ctx, firstDogID, secondDogID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load dogs", err)
	}
	if first == nil || second == nil {
		return nil, apperr.New(apperr.InvalidArgument, fmt.Sprintf(
			"The function must be called with valid document IDs, firstDogId: %t, secondDogId: %t",
			first != nil, second != nil,
		))
	}

	if first.UserID != callerID && second.UserID != callerID {
		return nil, apperr.New(apperr.PermissionDenied, "Neither of the dogs belong to the authenticated user.")
	}

	userIDs := CanonicalPair(first.UserID, second.UserID)

	exists, err := s.chats.ExistsForUsers(ctx, userIDs)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to check existing chats", err)
	}
	if exists {
		return nil, errChatExists
	}

	firstData, secondData := first.Data(), second.Data()
	for _, d := range []struct {
		id   string
		data models.DogData
	}{{first.ID, firstData}, {second.ID, secondData}} {
		if err := validate.Struct(d.data); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "stored dog profile is malformed",
				fmt.Errorf("%w %s: %s", ErrMalformedProfile, d.id, describeValidation(err)))
		}
	}

	text, err := s.generator.GenerateText(ctx, openingPrompt(firstData, secondData))
	if err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, "failed to generate the opening message", err)
	}
	if text == "" {
		return nil, apperr.New(apperr.Unavailable, "the model returned an empty opening message")
	}

	now := s.now()
	chat := &models.Chat{
		ID: uuid.New().String(),
		Dogs: []models.DogSummary{
			s.summary(first),
			s.summary(second),
		},
		UserIDs: userIDs,
		InitialMessage: models.InitialMessage{
			ReadBy:    []string{},
			Text:      text,
			Timestamp: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.chats.Create(ctx, chat); err != nil {
		if errors.Is(err, repository.ErrChatExists) {
			return nil, errChatExists
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create chat", err)
	}

	return &models.MatchResult{
		Success: true,
		Text:    text,
		ChatID:  chat.ID,
	}, nil
}

var errChatExists = apperr.New(apperr.AlreadyExists, "A chat between these two users already exists.")

// CanonicalPair returns the two owner ids in lexicographic order
func CanonicalPair(a, b string) []string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair
}

// loadPair fetches both dogs concurrently. A missing dog is returned as nil.
func (s *MatchService) loadPair(ctx context.Context, firstID, secondID string) (*models.Dog, *models.Dog, error) {
	var first, second *models.Dog

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		first, err = s.getOptional(gctx, firstID)
		return err
	})
	g.Go(func() error {
		var err error
		second, err = s.getOptional(gctx, secondID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (s *MatchService) getOptional(ctx context.Context, id string) (*models.Dog, error) {
	dog, err := s.dogs.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return dog, err
}

func (s *MatchService) summary(dog *models.Dog) models.DogSummary {
	return models.DogSummary{
		Name:         dog.Name,
		DogID:        dog.ID,
		UserID:       dog.UserID,
		ThumbnailURL: thumbnail.URL(s.publicBaseURL, s.bucket, dog.FilePath),
	}
}
