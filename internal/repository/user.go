package repository

import (
	"context"

	"coursepay/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Upsert creates a user or returns the existing one with the same email.
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
