package registry

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/domain/shared"
	"github.com/campus/backend/internal/infrastructure/cache"
)

const aggregateStudent = "student"

// StudentService handles student record operations. Reads go through the
// cache-aside layer; every mutation invalidates the affected entity key
// and the collection key before returning.
type StudentService struct {
	repo        registry.StudentRepository
	enrollments registry.EnrollmentRepository
	cache       *cache.Aside
	logger      *zap.Logger
}

// NewStudentService creates a new StudentService. The enrollment
// repository is optional; without it single-student reads omit the
// enrollment back-references.
func NewStudentService(repo registry.StudentRepository, enrollments registry.EnrollmentRepository, aside *cache.Aside, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:        repo,
		enrollments: enrollments,
		cache:       aside,
		logger:      logger.Named("student_service"),
	}
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*StudentResponse, error) {
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A student with this email already exists")
	}

	var enrolledAt = timeOrZero(req.EnrolledAt)
	student, err := registry.NewStudent(req.FirstName, req.LastName, req.Email, enrolledAt)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, student); err != nil {
		return nil, err
	}

	s.invalidate(ctx, student.ID)

	response := ToStudentResponse(student)
	return &response, nil
}

// GetByID retrieves a student with enrollment back-references, serving
// from cache when possible. The refs are copied snapshots, so the cached
// payload stays self-contained.
func (s *StudentService) GetByID(ctx context.Context, id int64) (*StudentResponse, error) {
	key := s.cache.Keys().Entity(aggregateStudent, id)
	response, err := cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (StudentResponse, error) {
		student, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return StudentResponse{}, err
		}
		resp := ToStudentResponse(student)
		if s.enrollments != nil {
			records, err := s.enrollments.FindByStudent(ctx, id)
			if err != nil {
				return StudentResponse{}, err
			}
			refs := make([]registry.EnrollmentRef, 0, len(records))
			for i := range records {
				refs = append(refs, records[i].Ref())
			}
			resp.Enrollments = refs
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List returns students matching the query. The default listing (first
// page, no search) is served through the collection cache key.
func (s *StudentService) List(ctx context.Context, q ListQuery) (shared.Paginated[StudentResponse], error) {
	filter := q.ToFilter()

	if filter == shared.DefaultFilter() {
		key := s.cache.Keys().All(aggregateStudent)
		return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (shared.Paginated[StudentResponse], error) {
			return s.loadPage(ctx, filter)
		})
	}

	return s.loadPage(ctx, filter)
}

func (s *StudentService) loadPage(ctx context.Context, filter shared.Filter) (shared.Paginated[StudentResponse], error) {
	students, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[StudentResponse]{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[StudentResponse]{}, err
	}

	items := make([]StudentResponse, 0, len(students))
	for i := range students {
		items = append(items, ToStudentResponse(&students[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update modifies an existing student.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*StudentResponse, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if student.Email != req.Email {
		exists, err := s.repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A student with this email already exists")
		}
	}

	if err := student.Update(req.FirstName, req.LastName, req.Email); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, student); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)

	response := ToStudentResponse(student)
	return &response, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *StudentService) invalidate(ctx context.Context, id int64) {
	keys := s.cache.Keys()
	s.cache.Invalidate(ctx, keys.Entity(aggregateStudent, id), keys.All(aggregateStudent))
}
