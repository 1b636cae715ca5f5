package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/campus/backend/internal/domain/shared"
)

// Enrollment links a student to a course. Its identity is the natural
// key (student ID, course ID); no surrogate ID exists on either
// service, which is what makes cross-service replication idempotent.
//
// CourseTitle and CourseCredits are snapshots captured at enrollment
// time. They intentionally do not follow later course updates: the
// historical record stays accurate, and the flattened copy keeps the
// student -> enrollment -> course serialization acyclic.
type Enrollment struct {
	StudentID     int64     `gorm:"primaryKey;autoIncrement:false" json:"student_id"`
	CourseID      int64     `gorm:"primaryKey;autoIncrement:false" json:"course_id"`
	CourseTitle   string    `gorm:"type:varchar(200);not null" json:"course_title"`
	CourseCredits int       `gorm:"not null" json:"course_credits"`
	Grade         *string   `gorm:"type:varchar(5)" json:"grade,omitempty"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Enrollment) TableName() string {
	return "enrollments"
}

// NewEnrollment creates an enrollment with a course snapshot
func NewEnrollment(studentID, courseID int64, courseTitle string, courseCredits int) (*Enrollment, error) {
	if studentID <= 0 {
		return nil, shared.NewDomainError("INVALID_STUDENT_ID", "Student ID must be a positive integer")
	}
	if courseID <= 0 {
		return nil, shared.NewDomainError("INVALID_COURSE_ID", "Course ID must be a positive integer")
	}
	if strings.TrimSpace(courseTitle) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Course title snapshot cannot be empty")
	}
	if err := validateCredits(courseCredits); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Enrollment{
		StudentID:     studentID,
		CourseID:      courseID,
		CourseTitle:   strings.TrimSpace(courseTitle),
		CourseCredits: courseCredits,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// NaturalKey renders the composite key as "studentID:courseID"
func (e *Enrollment) NaturalKey() string {
	return NaturalKey(e.StudentID, e.CourseID)
}

// AssignGrade records a final grade for the enrollment
func (e *Enrollment) AssignGrade(grade string) error {
	grade = strings.ToUpper(strings.TrimSpace(grade))
	if grade == "" || len(grade) > 5 {
		return shared.NewDomainError("INVALID_GRADE", "Grade must be 1 to 5 characters")
	}
	e.Grade = &grade
	e.UpdatedAt = time.Now()
	return nil
}

// Ref projects the enrollment into a student-side back-reference
func (e *Enrollment) Ref() EnrollmentRef {
	ref := EnrollmentRef{
		CourseID:    e.CourseID,
		CourseTitle: e.CourseTitle,
	}
	if e.Grade != nil {
		ref.Grade = *e.Grade
	}
	return ref
}

// NaturalKey renders a (student ID, course ID) pair as a string key
func NaturalKey(studentID, courseID int64) string {
	return fmt.Sprintf("%d:%d", studentID, courseID)
}
