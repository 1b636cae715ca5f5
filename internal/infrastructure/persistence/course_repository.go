package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/domain/shared"
)

// GormCourseRepository implements registry.CourseRepository using GORM.
type GormCourseRepository struct {
	db *gorm.DB
}

var _ registry.CourseRepository = (*GormCourseRepository)(nil)

// NewGormCourseRepository creates a new GormCourseRepository.
func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// FindByID finds a course by its externally assigned ID.
func (r *GormCourseRepository) FindByID(ctx context.Context, id int64) (*registry.Course, error) {
	var course registry.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// FindAll finds all courses matching the filter.
func (r *GormCourseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Course, error) {
	var courses []registry.Course
	query := applyFilter(r.db.WithContext(ctx).Model(&registry.Course{}), filter, courseSortFields, "title")

	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// Exists checks whether a course with the ID exists.
func (r *GormCourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&registry.Course{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a course.
func (r *GormCourseRepository) Save(ctx context.Context, course *registry.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// Delete deletes a course.
func (r *GormCourseRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&registry.Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts courses matching the filter.
func (r *GormCourseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&registry.Course{}), filter, "title")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
