package registry

import "github.com/campus/backend/internal/domain/shared"

// Event types for the registry context
const (
	EventTypeEnrollmentCreated = "registry.enrollment.created"
)

// EnrollmentCreatedEvent is emitted after an enrollment has been
// committed to the student service's store. The payload is the full
// denormalized snapshot so the consuming service can persist a replica
// without calling back.
type EnrollmentCreatedEvent struct {
	shared.BaseDomainEvent
	StudentID     int64   `json:"student_id"`
	CourseID      int64   `json:"course_id"`
	CourseTitle   string  `json:"course_title"`
	CourseCredits int     `json:"course_credits"`
	Grade         *string `json:"grade,omitempty"`
}

// NewEnrollmentCreatedEvent creates an event from an enrollment snapshot
func NewEnrollmentCreatedEvent(enrollment *Enrollment) *EnrollmentCreatedEvent {
	return &EnrollmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeEnrollmentCreated,
			"Enrollment",
			enrollment.NaturalKey(),
		),
		StudentID:     enrollment.StudentID,
		CourseID:      enrollment.CourseID,
		CourseTitle:   enrollment.CourseTitle,
		CourseCredits: enrollment.CourseCredits,
		Grade:         enrollment.Grade,
	}
}

// Enrollment rebuilds the enrollment record carried by the event
func (e *EnrollmentCreatedEvent) Enrollment() (*Enrollment, error) {
	enrollment, err := NewEnrollment(e.StudentID, e.CourseID, e.CourseTitle, e.CourseCredits)
	if err != nil {
		return nil, err
	}
	enrollment.Grade = e.Grade
	return enrollment, nil
}
