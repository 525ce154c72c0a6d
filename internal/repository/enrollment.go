package repository

import (
	"context"

	"coursepay/internal/domain"
)

// EnrollmentRepository defines the persistence operations for enrollments.
type EnrollmentRepository interface {
	// UpsertActive creates or re-activates the enrollment for a user and course.
	UpsertActive(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)

	// GetByUserAndCourse retrieves the enrollment for a user and course.
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)

	// ListByUserID retrieves all enrollments of a user.
	ListByUserID(ctx context.Context, userID string) ([]*domain.Enrollment, error)
}
