package registry

import (
	"strings"
	"time"

	"github.com/campus/backend/internal/domain/shared"
)

// Student represents a student in the directory.
// It is the aggregate root for student-related operations and is
// owned by the student service.
type Student struct {
	shared.BaseEntity
	FirstName  string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email      string    `gorm:"type:varchar(200);uniqueIndex" json:"email"`
	EnrolledAt time.Time `gorm:"not null" json:"enrolled_at"`
}

// TableName returns the table name for GORM
func (Student) TableName() string {
	return "students"
}

// EnrollmentRef is a derived back-reference from a student to one of
// their enrollments. It is a read-side view assembled from the
// enrollment records, never an ownership edge, so serializing a
// student cannot recurse back into full enrollment records.
type EnrollmentRef struct {
	CourseID    int64  `json:"course_id"`
	CourseTitle string `json:"course_title"`
	Grade       string `json:"grade,omitempty"`
}

// NewStudent creates a new student with required fields
func NewStudent(firstName, lastName, email string, enrolledAt time.Time) (*Student, error) {
	if err := validateName(firstName, "first name"); err != nil {
		return nil, err
	}
	if err := validateName(lastName, "last name"); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if enrolledAt.IsZero() {
		enrolledAt = time.Now()
	}

	now := time.Now()
	return &Student{
		BaseEntity: shared.BaseEntity{
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		EnrolledAt: enrolledAt,
	}, nil
}

// Update updates the student's basic information
func (s *Student) Update(firstName, lastName, email string) error {
	if err := validateName(firstName, "first name"); err != nil {
		return err
	}
	if err := validateName(lastName, "last name"); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	s.FirstName = strings.TrimSpace(firstName)
	s.LastName = strings.TrimSpace(lastName)
	s.Email = strings.ToLower(strings.TrimSpace(email))
	s.Touch()
	return nil
}

// FullName returns the display name of the student
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

func validateName(name, field string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Student "+field+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Student "+field+" cannot exceed 100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	return nil
}
