package domain

import "time"

// EnrollmentStatus represents the access state of a user on a course.
type EnrollmentStatus string

const (
	EnrollmentStatusPending   EnrollmentStatus = "PENDING"
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusExpired   EnrollmentStatus = "EXPIRED"
	EnrollmentStatusCancelled EnrollmentStatus = "CANCELLED"
)

// Enrollment grants a user access to a course. Unique per (UserID, CourseID).
type Enrollment struct {
	ID         string
	UserID     string
	CourseID   string
	Status     EnrollmentStatus
	EnrolledAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
