package repository

import (
	"context"

	"coursepay/internal/domain"
)

// CourseRepository defines the persistence operations for courses.
type CourseRepository interface {
	// Upsert creates a course or updates the existing one with the same ID.
	Upsert(ctx context.Context, course *domain.Course) error

	// GetByID retrieves a course by ID.
	GetByID(ctx context.Context, id string) (*domain.Course, error)
}
