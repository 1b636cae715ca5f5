package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/domain/shared"
)

// GormEnrollmentRepository implements registry.EnrollmentRepository using
// GORM. The composite primary key on (student_id, course_id) is what
// makes consumer-side inserts idempotent: a redelivered event hits the
// key constraint instead of producing a second row.
type GormEnrollmentRepository struct {
	db *gorm.DB
}

var _ registry.EnrollmentRepository = (*GormEnrollmentRepository)(nil)

// NewGormEnrollmentRepository creates a new GormEnrollmentRepository.
func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// FindByKey finds an enrollment by its natural key.
func (r *GormEnrollmentRepository) FindByKey(ctx context.Context, studentID, courseID int64) (*registry.Enrollment, error) {
	var enrollment registry.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// FindByStudent finds all enrollments held by a student.
func (r *GormEnrollmentRepository) FindByStudent(ctx context.Context, studentID int64) ([]registry.Enrollment, error) {
	var enrollments []registry.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("course_id ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// FindByCourse finds all enrollments referencing a course.
func (r *GormEnrollmentRepository) FindByCourse(ctx context.Context, courseID int64) ([]registry.Enrollment, error) {
	var enrollments []registry.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("student_id ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Insert persists a new enrollment. Returns shared.ErrAlreadyExists when
// the (student_id, course_id) key is already taken.
func (r *GormEnrollmentRepository) Insert(ctx context.Context, enrollment *registry.Enrollment) error {
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Count counts all enrollments.
func (r *GormEnrollmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&registry.Enrollment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
