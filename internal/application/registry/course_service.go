package registry

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/domain/shared"
	"github.com/campus/backend/internal/infrastructure/cache"
)

const aggregateCourse = "course"

// CourseService handles course catalog operations. Course ids are
// assigned by the institution, not generated here; Save is an upsert
// keyed on that id.
type CourseService struct {
	repo   registry.CourseRepository
	cache  *cache.Aside
	logger *zap.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(repo registry.CourseRepository, aside *cache.Aside, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		repo:   repo,
		cache:  aside,
		logger: logger.Named("course_service"),
	}
}

// Create registers a course under its externally assigned id.
func (s *CourseService) Create(ctx context.Context, req SaveCourseRequest) (*CourseResponse, error) {
	exists, err := s.repo.Exists(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A course with this id already exists")
	}

	course, err := registry.NewCourse(req.ID, req.Title, req.Credits)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx, course.ID)

	response := ToCourseResponse(course)
	return &response, nil
}

// GetByID retrieves a course, serving from cache when possible.
func (s *CourseService) GetByID(ctx context.Context, id int64) (*CourseResponse, error) {
	key := s.cache.Keys().Entity(aggregateCourse, id)
	response, err := cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (CourseResponse, error) {
		course, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return CourseResponse{}, err
		}
		return ToCourseResponse(course), nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List returns courses matching the query. The default listing is served
// through the collection cache key.
func (s *CourseService) List(ctx context.Context, q ListQuery) (shared.Paginated[CourseResponse], error) {
	filter := q.ToFilter()

	if filter == shared.DefaultFilter() {
		key := s.cache.Keys().All(aggregateCourse)
		return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (shared.Paginated[CourseResponse], error) {
			return s.loadPage(ctx, filter)
		})
	}

	return s.loadPage(ctx, filter)
}

func (s *CourseService) loadPage(ctx context.Context, filter shared.Filter) (shared.Paginated[CourseResponse], error) {
	courses, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CourseResponse]{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[CourseResponse]{}, err
	}

	items := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		items = append(items, ToCourseResponse(&courses[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update modifies an existing course.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*CourseResponse, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := course.Update(req.Title, req.Credits); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)

	response := ToCourseResponse(course)
	return &response, nil
}

// Delete removes a course. Existing enrollment records keep their
// snapshot of the course and are unaffected.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CourseService) invalidate(ctx context.Context, id int64) {
	keys := s.cache.Keys()
	s.cache.Invalidate(ctx, keys.Entity(aggregateCourse, id), keys.All(aggregateCourse))
}
