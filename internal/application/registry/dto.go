package registry

import (
	"time"

	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/domain/shared"
)

// CreateStudentRequest is the payload for creating a student.
type CreateStudentRequest struct {
	FirstName  string     `json:"first_name" binding:"required,max=100"`
	LastName   string     `json:"last_name" binding:"required,max=100"`
	Email      string     `json:"email" binding:"required,email"`
	EnrolledAt *time.Time `json:"enrolled_at"`
}

// UpdateStudentRequest is the payload for updating a student.
type UpdateStudentRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
}

// StudentResponse is the wire representation of a student. Enrollments
// is a derived view assembled from the enrollment records at read time,
// populated on single-student reads only.
type StudentResponse struct {
	ID          int64                    `json:"id"`
	FirstName   string                   `json:"first_name"`
	LastName    string                   `json:"last_name"`
	Email       string                   `json:"email"`
	EnrolledAt  time.Time                `json:"enrolled_at"`
	Enrollments []registry.EnrollmentRef `json:"enrollments,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// ToStudentResponse converts a domain student to its wire form.
func ToStudentResponse(s *registry.Student) StudentResponse {
	return StudentResponse{
		ID:         s.ID,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		Email:      s.Email,
		EnrolledAt: s.EnrolledAt,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// SaveCourseRequest creates or replaces a course under its externally
// assigned id.
type SaveCourseRequest struct {
	ID      int64  `json:"id" binding:"required,min=1"`
	Title   string `json:"title" binding:"required,max=200"`
	Credits int    `json:"credits" binding:"required,min=1,max=30"`
}

// UpdateCourseRequest is the payload for updating a course.
type UpdateCourseRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Credits int    `json:"credits" binding:"required,min=1,max=30"`
}

// CourseResponse is the wire representation of a course.
type CourseResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCourseResponse converts a domain course to its wire form.
func ToCourseResponse(c *registry.Course) CourseResponse {
	return CourseResponse{
		ID:        c.ID,
		Title:     c.Title,
		Credits:   c.Credits,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// EnrollRequest is the payload for enrolling a student in a course.
type EnrollRequest struct {
	CourseID int64   `json:"course_id" binding:"required,min=1"`
	Grade    *string `json:"grade" binding:"omitempty,max=5"`
}

// EnrollmentResponse is the wire representation of an enrollment record.
type EnrollmentResponse struct {
	StudentID     int64     `json:"student_id"`
	CourseID      int64     `json:"course_id"`
	CourseTitle   string    `json:"course_title"`
	CourseCredits int       `json:"course_credits"`
	Grade         *string   `json:"grade,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToEnrollmentResponse converts a domain enrollment to its wire form.
func ToEnrollmentResponse(e *registry.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		StudentID:     e.StudentID,
		CourseID:      e.CourseID,
		CourseTitle:   e.CourseTitle,
		CourseCredits: e.CourseCredits,
		Grade:         e.Grade,
		CreatedAt:     e.CreatedAt,
	}
}

// ListQuery carries pagination and search options into the services.
type ListQuery struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// ToFilter converts a ListQuery to a repository filter, applying defaults.
func (q ListQuery) ToFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}
	filter.Search = q.Search
	return filter
}
