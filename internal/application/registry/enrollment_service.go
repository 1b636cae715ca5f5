package registry

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/domain/shared"
	"github.com/campus/backend/internal/infrastructure/cache"
	"github.com/campus/backend/internal/infrastructure/client"
)

// CourseDirectory fetches course snapshots from the course service.
type CourseDirectory interface {
	GetCourse(ctx context.Context, id int64) (*client.CourseSnapshot, error)
}

// EnrollmentService creates enrollment records on the student service.
// An enrollment snapshots the course at enroll time, commits locally and
// then announces itself on the broker. There is no transactional
// coupling between the local insert and the publish: a publish failure
// leaves the record committed and is reported to the caller.
type EnrollmentService struct {
	enrollments registry.EnrollmentRepository
	students    registry.StudentRepository
	directory   CourseDirectory
	publisher   shared.EventPublisher
	cache       *cache.Aside
	logger      *zap.Logger
}

// NewEnrollmentService creates a new EnrollmentService. The cache is
// optional; when present, a new enrollment drops the student's cached
// detail entry so the next read rebuilds its enrollment refs.
func NewEnrollmentService(
	enrollments registry.EnrollmentRepository,
	students registry.StudentRepository,
	directory CourseDirectory,
	publisher shared.EventPublisher,
	aside *cache.Aside,
	logger *zap.Logger,
) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		enrollments: enrollments,
		students:    students,
		directory:   directory,
		publisher:   publisher,
		cache:       aside,
		logger:      logger.Named("enrollment_service"),
	}
}

// Enroll enrolls a student in a course. The course title and credits are
// copied from the directory's answer into the record; later course edits
// do not rewrite history.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID int64, req EnrollRequest) (*EnrollmentResponse, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}

	snapshot, err := s.directory.GetCourse(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, client.ErrCourseNotFound) {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Course %d does not exist", req.CourseID))
		}
		return nil, err
	}

	enrollment, err := registry.NewEnrollment(studentID, snapshot.ID, snapshot.Title, snapshot.Credits)
	if err != nil {
		return nil, err
	}
	if req.Grade != nil {
		if err := enrollment.AssignGrade(*req.Grade); err != nil {
			return nil, err
		}
	}

	if err := s.enrollments.Insert(ctx, enrollment); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, s.cache.Keys().Entity(aggregateStudent, enrollment.StudentID))
	}

	if err := s.publisher.Publish(ctx, registry.NewEnrollmentCreatedEvent(enrollment)); err != nil {
		s.logger.Error("enrollment committed but not announced",
			zap.String("natural_key", enrollment.NaturalKey()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("enrollment created",
		zap.Int64("student_id", enrollment.StudentID),
		zap.Int64("course_id", enrollment.CourseID),
		zap.String("course_title", enrollment.CourseTitle),
	)

	response := ToEnrollmentResponse(enrollment)
	return &response, nil
}

// GetByKey retrieves a single enrollment by its natural key.
func (s *EnrollmentService) GetByKey(ctx context.Context, studentID, courseID int64) (*EnrollmentResponse, error) {
	enrollment, err := s.enrollments.FindByKey(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	response := ToEnrollmentResponse(enrollment)
	return &response, nil
}

// ListByStudent returns all enrollments held by a student.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID int64) ([]EnrollmentResponse, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		responses = append(responses, ToEnrollmentResponse(&enrollments[i]))
	}
	return responses, nil
}
