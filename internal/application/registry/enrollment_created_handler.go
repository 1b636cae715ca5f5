package registry

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/domain/shared"
)

// EnrollmentCreatedHandler replicates enrollment records into the course
// service's store. The broker delivers at least once, so the handler
// deduplicates by the record's natural key (student_id, course_id)
// rather than by message id: a redelivered or re-emitted event arrives
// with a fresh message id but the same natural key, and the unique key
// on the replica table turns the second insert into a no-op.
type EnrollmentCreatedHandler struct {
	enrollments registry.EnrollmentRepository
	logger      *zap.Logger
}

var _ shared.EventHandler = (*EnrollmentCreatedHandler)(nil)

// NewEnrollmentCreatedHandler creates a new handler.
func NewEnrollmentCreatedHandler(enrollments registry.EnrollmentRepository, logger *zap.Logger) *EnrollmentCreatedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentCreatedHandler{
		enrollments: enrollments,
		logger:      logger.Named("enrollment_created_handler"),
	}
}

// EventTypes implements shared.EventHandler.
func (h *EnrollmentCreatedHandler) EventTypes() []string {
	return []string{registry.EventTypeEnrollmentCreated}
}

// Handle inserts the replicated record. A duplicate natural key means
// the record was already replicated and counts as success, so the
// transport acks the entry. Any other failure is returned so the entry
// stays pending and is redelivered.
func (h *EnrollmentCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*registry.EnrollmentCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	enrollment, err := created.Enrollment()
	if err != nil {
		return fmt.Errorf("rebuild enrollment %s: %w", created.AggregateKey(), err)
	}

	if err := h.enrollments.Insert(ctx, enrollment); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			h.logger.Debug("duplicate delivery ignored",
				zap.String("natural_key", enrollment.NaturalKey()),
				zap.String("event_id", created.EventID().String()),
			)
			return nil
		}
		return fmt.Errorf("replicate enrollment %s: %w", enrollment.NaturalKey(), err)
	}

	h.logger.Info("enrollment replicated",
		zap.Int64("student_id", enrollment.StudentID),
		zap.Int64("course_id", enrollment.CourseID),
	)
	return nil
}
