package postgres

import (
	"context"
	"database/sql"

	"coursepay/internal/domain"
	"coursepay/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

var _ repository.UserRepository = (*UserRepository)(nil)

// Upsert creates a user or returns the existing one with the same email.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, email, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, first_name, last_name, created_at
	`

	var stored domain.User
	err := r.q.QueryRowContext(ctx, query, user.ID, user.Email, user.FirstName, user.LastName).Scan(
		&stored.ID, &stored.Email, &stored.FirstName, &stored.LastName, &stored.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &stored, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, email, first_name, last_name, created_at FROM users WHERE id = $1`

	var user domain.User
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}
