package repository

import (
	"context"
	"errors"
	"fmt"

	"tindog-backend/internal/models"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrChatExists is returned when a chat for the same pair of owners is already stored
var ErrChatExists = errors.New("chat already exists")

// ChatRepository handles database operations for chats
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create creates a new chat. chat.UserIDs must already be sorted; the unique
// index on user_ids turns a concurrent duplicate into ErrChatExists.
func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	query := `
		INSERT INTO chats (id, user_ids, dogs, initial_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		chat.ID, chat.UserIDs, chat.Dogs, chat.InitialMessage, chat.CreatedAt, chat.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrChatExists
		}
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

// GetByID retrieves a chat by ID
func (r *ChatRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	query := `
		SELECT id, user_ids, dogs, initial_message, last_message, created_at, updated_at
		FROM chats
		WHERE id = $1
	`
	var chat models.Chat
	err := r.db.QueryRow(ctx, query, id).Scan(
		&chat.ID, &chat.UserIDs, &chat.Dogs, &chat.InitialMessage, &chat.LastMessage,
		&chat.CreatedAt, &chat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("chat %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

// ExistsForUsers checks if a chat between exactly these (sorted) owners exists
func (r *ChatRepository) ExistsForUsers(ctx context.Context, userIDs []string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM chats WHERE user_ids = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userIDs).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check chat existence: %w", err)
	}
	return exists, nil
}

// UpdateLastMessage replaces the denormalized last message of a chat
func (r *ChatRepository) UpdateLastMessage(ctx context.Context, chatID string, msg models.LastMessage) error {
	query := `UPDATE chats SET last_message = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.Exec(ctx, query, msg, chatID)
	if err != nil {
		return fmt.Errorf("failed to update last message: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}
	return nil
}
