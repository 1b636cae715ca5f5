package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/domain/shared"
)

// GormStudentRepository implements registry.StudentRepository using GORM.
type GormStudentRepository struct {
	db *gorm.DB
}

var _ registry.StudentRepository = (*GormStudentRepository)(nil)

// NewGormStudentRepository creates a new GormStudentRepository.
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by ID.
func (r *GormStudentRepository) FindByID(ctx context.Context, id int64) (*registry.Student, error) {
	var student registry.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// FindAll finds all students matching the filter.
func (r *GormStudentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Student, error) {
	var students []registry.Student
	query := applyFilter(r.db.WithContext(ctx).Model(&registry.Student{}), filter, studentSortFields, "last_name", "first_name", "email")

	if err := query.Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// ExistsByEmail checks whether a student with the email exists.
func (r *GormStudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&registry.Student{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a student.
func (r *GormStudentRepository) Save(ctx context.Context, student *registry.Student) error {
	if err := r.db.WithContext(ctx).Save(student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a student.
func (r *GormStudentRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&registry.Student{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts students matching the filter.
func (r *GormStudentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&registry.Student{}), filter, "last_name", "first_name", "email")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies search, pagination and ordering to a query.
// Ordering only ever uses columns from the entity's sort whitelist.
func applyFilter(query *gorm.DB, filter shared.Filter, sortFields map[string]bool, searchColumns ...string) *gorm.DB {
	query = applySearch(query, filter, searchColumns...)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := sanitizeSortField(filter.OrderBy, sortFields)
	orderDir := sanitizeSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func applySearch(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	if filter.Search == "" || len(searchColumns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(filter.Search) + "%"
	var clauses []string
	var args []any
	for _, col := range searchColumns {
		clauses = append(clauses, "LOWER("+col+") LIKE ?")
		args = append(args, pattern)
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}
