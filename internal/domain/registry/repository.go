package registry

import (
	"context"

	"github.com/campus/backend/internal/domain/shared"
)

// StudentRepository defines the interface for student persistence
type StudentRepository interface {
	// FindByID finds a student by ID
	FindByID(ctx context.Context, id int64) (*Student, error)

	// FindAll finds all students matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Student, error)

	// ExistsByEmail checks whether a student with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a student
	Save(ctx context.Context, student *Student) error

	// Delete deletes a student
	Delete(ctx context.Context, id int64) error

	// Count counts students matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CourseRepository defines the interface for course persistence
type CourseRepository interface {
	// FindByID finds a course by its externally assigned ID
	FindByID(ctx context.Context, id int64) (*Course, error)

	// FindAll finds all courses matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Course, error)

	// Exists checks whether a course with the ID exists
	Exists(ctx context.Context, id int64) (bool, error)

	// Save creates or updates a course
	Save(ctx context.Context, course *Course) error

	// Delete deletes a course
	Delete(ctx context.Context, id int64) error

	// Count counts courses matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// EnrollmentRepository defines the interface for enrollment persistence.
// Both services implement it against their own store: the student
// service for the authoritative records, the course service for the
// replicated ones.
type EnrollmentRepository interface {
	// FindByKey finds an enrollment by its natural key.
	// Returns shared.ErrNotFound when absent.
	FindByKey(ctx context.Context, studentID, courseID int64) (*Enrollment, error)

	// FindByStudent finds all enrollments held by a student
	FindByStudent(ctx context.Context, studentID int64) ([]Enrollment, error)

	// FindByCourse finds all enrollments referencing a course
	FindByCourse(ctx context.Context, courseID int64) ([]Enrollment, error)

	// Insert persists a new enrollment.
	// Returns shared.ErrAlreadyExists when the natural key is taken.
	Insert(ctx context.Context, enrollment *Enrollment) error

	// Count counts all enrollments
	Count(ctx context.Context) (int64, error)
}
