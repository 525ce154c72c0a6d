package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"coursepay/internal/domain"
	"coursepay/internal/repository"
)

// EnrollmentRepository is a PostgreSQL implementation of repository.EnrollmentRepository.
type EnrollmentRepository struct {
	q Querier
}

// NewEnrollmentRepository creates a new PostgreSQL enrollment repository.
func NewEnrollmentRepository(db *sql.DB) *EnrollmentRepository {
	return &EnrollmentRepository{q: db}
}

// NewEnrollmentRepositoryWithTx creates an enrollment repository using a transaction.
func NewEnrollmentRepositoryWithTx(tx *sql.Tx) *EnrollmentRepository {
	return &EnrollmentRepository{q: tx}
}

var _ repository.EnrollmentRepository = (*EnrollmentRepository)(nil)

const enrollmentColumns = `id, user_id, course_id, status, enrolled_at, created_at, updated_at`

// UpsertActive creates or re-activates the enrollment for a user and course.
// The (user_id, course_id) unique key turns a repeated activation into an update.
func (r *EnrollmentRepository) UpsertActive(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	query := `
		INSERT INTO enrollments (id, user_id, course_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, course_id)
		DO UPDATE SET status = EXCLUDED.status, enrolled_at = EXCLUDED.enrolled_at, updated_at = NOW()
		RETURNING ` + enrollmentColumns

	enrollment, err := scanEnrollment(r.q.QueryRowContext(ctx, query,
		uuid.New().String(),
		userID,
		courseID,
		domain.EnrollmentStatusActive,
	))
	if err != nil {
		return nil, translateError(err)
	}
	return enrollment, nil
}

// GetByUserAndCourse retrieves the enrollment for a user and course.
func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1 AND course_id = $2`

	enrollment, err := scanEnrollment(r.q.QueryRowContext(ctx, query, userID, courseID))
	if err != nil {
		return nil, translateError(err)
	}
	return enrollment, nil
}

// ListByUserID retrieves all enrollments of a user.
func (r *EnrollmentRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*domain.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, rows.Err()
}

func scanEnrollment(row rowScanner) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := row.Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.Status,
		&enrollment.EnrolledAt,
		&enrollment.CreatedAt,
		&enrollment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}
