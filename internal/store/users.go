package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-service/internal/models"

	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

// InsertUser creates a new user. There is no uniqueness pre-check: a
// duplicate username surfaces as the store's own unique-constraint
// rejection, mapped to the Conflict error.
func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, user, query, user.Username, user.PasswordHash)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("username %s: %w", user.Username, models.ErrConflict)
	}
	return err
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
