package repository

import (
	"context"
	"errors"
	"fmt"

	"tindog-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dogColumns = `id, user_id, name, breed, size, description, file_path, seen, created_at, updated_at`

// DogRepository handles database operations for dog profiles
type DogRepository struct {
	db *pgxpool.Pool
}

// NewDogRepository creates a new dog repository
func NewDogRepository(db *pgxpool.Pool) *DogRepository {
	return &DogRepository{db: db}
}

// Create creates a new dog
func (r *DogRepository) Create(ctx context.Context, dog *models.Dog) error {
	query := `
		INSERT INTO dogs (id, user_id, name, breed, size, description, file_path, seen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	seen := dog.Seen
	if seen == nil {
		seen = []string{}
	}
	_, err := r.db.Exec(ctx, query,
		dog.ID, dog.UserID, dog.Name, dog.Breed, sizeParam(dog.Size), dog.Description,
		dog.FilePath, seen, dog.CreatedAt, dog.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create dog: %w", err)
	}
	return nil
}

// GetByID retrieves a dog by ID
func (r *DogRepository) GetByID(ctx context.Context, id string) (*models.Dog, error) {
	query := `SELECT ` + dogColumns + ` FROM dogs WHERE id = $1`

	dog, err := scanDog(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dog %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get dog: %w", err)
	}
	return dog, nil
}

// ListExcept returns every dog whose id is not in excluded
func (r *DogRepository) ListExcept(ctx context.Context, excluded []string) ([]*models.Dog, error) {
	query := `
		SELECT ` + dogColumns + `
		FROM dogs
		WHERE NOT (id = ANY($1))
		ORDER BY created_at, id
	`
	if excluded == nil {
		excluded = []string{}
	}
	rows, err := r.db.Query(ctx, query, excluded)
	if err != nil {
		return nil, fmt.Errorf("failed to list dogs: %w", err)
	}
	defer rows.Close()

	dogs := make([]*models.Dog, 0)
	for rows.Next() {
		dog, err := scanDog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dog: %w", err)
		}
		dogs = append(dogs, dog)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dogs: %w", err)
	}

	return dogs, nil
}

// Update overwrites the mutable fields of a dog. The owner is never changed.
func (r *DogRepository) Update(ctx context.Context, dog *models.Dog) error {
	query := `
		UPDATE dogs
		SET name = $1, breed = $2, size = $3, description = $4, file_path = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		dog.Name, dog.Breed, sizeParam(dog.Size), dog.Description, dog.FilePath, dog.UpdatedAt, dog.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dog: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("dog %s: %w", dog.ID, ErrNotFound)
	}
	return nil
}

// AppendSeen adds ids to a dog's seen list, skipping ones already present
func (r *DogRepository) AppendSeen(ctx context.Context, dogID string, ids []string) ([]string, error) {
	query := `
		UPDATE dogs
		SET seen = seen || ARRAY(
				SELECT DISTINCT s FROM unnest($1::text[]) AS s
				WHERE NOT (s = ANY(seen))
			),
			updated_at = now()
		WHERE id = $2
		RETURNING seen
	`
	var seen []string
	err := r.db.QueryRow(ctx, query, ids, dogID).Scan(&seen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dog %s: %w", dogID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update seen dogs: %w", err)
	}
	return seen, nil
}

func scanDog(row pgx.Row) (*models.Dog, error) {
	var (
		dog  models.Dog
		size *string
	)
	err := row.Scan(
		&dog.ID, &dog.UserID, &dog.Name, &dog.Breed, &size, &dog.Description,
		&dog.FilePath, &dog.Seen, &dog.CreatedAt, &dog.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if size != nil {
		s := models.Size(*size)
		dog.Size = &s
	}
	return &dog, nil
}

func sizeParam(size *models.Size) *string {
	if size == nil {
		return nil
	}
	s := string(*size)
	return &s
}
