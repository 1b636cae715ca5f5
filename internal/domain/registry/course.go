package registry

import (
	"strings"
	"time"

	"github.com/campus/backend/internal/domain/shared"
)

// Course represents a course in the catalog, owned by the course
// service. Course IDs are assigned by the registrar's office, not by
// the store, so creation requires an explicit identity.
type Course struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Credits   int       `gorm:"not null" json:"credits"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Course) TableName() string {
	return "courses"
}

// NewCourse creates a new course with an externally assigned ID
func NewCourse(id int64, title string, credits int) (*Course, error) {
	if id <= 0 {
		return nil, shared.NewDomainError("INVALID_COURSE_ID", "Course ID must be a positive integer")
	}
	if err := validateCourseTitle(title); err != nil {
		return nil, err
	}
	if err := validateCredits(credits); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Course{
		ID:        id,
		Title:     strings.TrimSpace(title),
		Credits:   credits,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update updates the course title and credit count. Enrollment
// snapshots taken before the update keep the old values.
func (c *Course) Update(title string, credits int) error {
	if err := validateCourseTitle(title); err != nil {
		return err
	}
	if err := validateCredits(credits); err != nil {
		return err
	}

	c.Title = strings.TrimSpace(title)
	c.Credits = credits
	c.UpdatedAt = time.Now()
	return nil
}

func validateCourseTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Course title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Course title cannot exceed 200 characters")
	}
	return nil
}

func validateCredits(credits int) error {
	if credits <= 0 || credits > 30 {
		return shared.NewDomainError("INVALID_CREDITS", "Credits must be between 1 and 30")
	}
	return nil
}
