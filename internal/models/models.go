package models

import "time"

// Size is the coarse size class of a dog
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Dog represents one dog/owner profile eligible for matching
type Dog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Breed       *string   `json:"breed,omitempty"`
	Size        *Size     `json:"size,omitempty"`
	Description *string   `json:"description,omitempty"`
	FilePath    string    `json:"filePath"`
	Seen        []string  `json:"seen"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DogData is the shape produced by photo classification and consumed by the
// opening message prompt. Every field is optional.
type DogData struct {
	IsDog       *bool   `json:"isDog,omitempty"`
	Breed       *string `json:"breed,omitempty"`
	Size        *Size   `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	Description *string `json:"description,omitempty"`
}

// Data projects a dog profile onto the DogData shape
func (d *Dog) Data() DogData {
	return DogData{
		Breed:       d.Breed,
		Size:        d.Size,
		Description: d.Description,
	}
}

// DogSummary is the per-participant snapshot stored on a chat
type DogSummary struct {
	Name         string `json:"name"`
	DogID        string `json:"dogId"`
	UserID       string `json:"userId"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// InitialMessage is the generated opener stored with a new chat
type InitialMessage struct {
	ReadBy    []string  `json:"readBy"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// LastMessage is the denormalized copy of the newest message of a chat
type LastMessage struct {
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Chat represents a conversation between the owners of two dogs
type Chat struct {
	ID             string         `json:"id"`
	Dogs           []DogSummary   `json:"dogs"`
	UserIDs        []string       `json:"userIds"`
	InitialMessage InitialMessage `json:"initialMessage"`
	LastMessage    *LastMessage   `json:"lastMessage,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// HasParticipant reports whether userID is one of the chat's two owners
func (c *Chat) HasParticipant(userID string) bool {
	for _, id := range c.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Message represents one chat line
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}

// MatchResult is returned to the caller of a successful match
type MatchResult struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	ChatID  string `json:"chatId"`
}
