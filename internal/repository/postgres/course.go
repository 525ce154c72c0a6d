package postgres

import (
	"context"
	"database/sql"

	"coursepay/internal/domain"
	"coursepay/internal/repository"
)

// CourseRepository implements repository.CourseRepository using PostgreSQL.
type CourseRepository struct {
	q Querier
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{q: db}
}

// NewCourseRepositoryWithTx creates a course repository using a transaction.
func NewCourseRepositoryWithTx(tx *sql.Tx) *CourseRepository {
	return &CourseRepository{q: tx}
}

var _ repository.CourseRepository = (*CourseRepository)(nil)

// Upsert creates a course or updates the existing one with the same ID.
func (r *CourseRepository) Upsert(ctx context.Context, course *domain.Course) error {
	query := `
		INSERT INTO courses (id, title, description, price, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description,
			price = EXCLUDED.price, is_active = EXCLUDED.is_active
		RETURNING created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		course.ID, course.Title, course.Description, course.Price, course.IsActive,
	).Scan(&course.CreatedAt)
	return translateError(err)
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `SELECT id, title, description, price, is_active, created_at FROM courses WHERE id = $1`

	var course domain.Course
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&course.ID, &course.Title, &course.Description, &course.Price, &course.IsActive, &course.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &course, nil
}
