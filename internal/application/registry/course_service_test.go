package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/domain/shared"
	"github.com/campus/backend/internal/infrastructure/cache"
)

func testCourse(t *testing.T) *registry.Course {
	course, err := registry.NewCourse(301, "Distributed Systems", 6)
	require.NoError(t, err)
	return course
}

func newCourseAside(t *testing.T) *cache.Aside {
	t.Helper()
	return cache.NewAside(cache.NewMemoryStore(), "course-service", time.Minute, zap.NewNop())
}

func TestCourseService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("registers under external id", func(t *testing.T) {
		repo := new(MockCourseRepository)
		repo.On("Exists", ctx, int64(301)).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*registry.Course")).Return(nil)

		svc := NewCourseService(repo, newCourseAside(t), zap.NewNop())
		resp, err := svc.Create(ctx, SaveCourseRequest{ID: 301, Title: "Distributed Systems", Credits: 6})

		require.NoError(t, err)
		assert.Equal(t, int64(301), resp.ID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		repo := new(MockCourseRepository)
		repo.On("Exists", ctx, int64(301)).Return(true, nil)

		svc := NewCourseService(repo, newCourseAside(t), zap.NewNop())
		_, err := svc.Create(ctx, SaveCourseRequest{ID: 301, Title: "Distributed Systems", Credits: 6})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("invalid credits rejected", func(t *testing.T) {
		repo := new(MockCourseRepository)
		repo.On("Exists", ctx, int64(301)).Return(false, nil)

		svc := NewCourseService(repo, newCourseAside(t), zap.NewNop())
		_, err := svc.Create(ctx, SaveCourseRequest{ID: 301, Title: "Distributed Systems", Credits: 40})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCourseService_GetByID_CacheAside(t *testing.T) {
	ctx := context.Background()

	repo := new(MockCourseRepository)
	repo.On("FindByID", ctx, int64(301)).Return(testCourse(t), nil).Once()

	svc := NewCourseService(repo, newCourseAside(t), zap.NewNop())

	_, err := svc.GetByID(ctx, 301)
	require.NoError(t, err)

	resp, err := svc.GetByID(ctx, 301)
	require.NoError(t, err)
	assert.Equal(t, "Distributed Systems", resp.Title)
	repo.AssertExpectations(t)
}

func TestCourseService_Update_KeepsSnapshotsOut(t *testing.T) {
	ctx := context.Background()

	repo := new(MockCourseRepository)
	repo.On("FindByID", ctx, int64(301)).Return(testCourse(t), nil)
	repo.On("Save", ctx, mock.MatchedBy(func(c *registry.Course) bool {
		return c.Title == "Advanced Distributed Systems" && c.Credits == 9
	})).Return(nil)

	svc := NewCourseService(repo, newCourseAside(t), zap.NewNop())
	resp, err := svc.Update(ctx, 301, UpdateCourseRequest{Title: "Advanced Distributed Systems", Credits: 9})

	require.NoError(t, err)
	assert.Equal(t, 9, resp.Credits)
	repo.AssertExpectations(t)
}

func TestCourseService_Delete_InvalidatesCache(t *testing.T) {
	ctx := context.Background()

	repo := new(MockCourseRepository)
	repo.On("FindByID", ctx, int64(301)).Return(testCourse(t), nil).Twice()
	repo.On("Delete", ctx, int64(301)).Return(nil)

	svc := NewCourseService(repo, newCourseAside(t), zap.NewNop())

	_, err := svc.GetByID(ctx, 301)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 301))

	_, err = svc.GetByID(ctx, 301)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCourseService_List_DefaultCached(t *testing.T) {
	ctx := context.Background()
	filter := shared.DefaultFilter()

	repo := new(MockCourseRepository)
	repo.On("FindAll", ctx, filter).Return([]registry.Course{*testCourse(t)}, nil).Once()
	repo.On("Count", ctx, filter).Return(int64(1), nil).Once()

	svc := NewCourseService(repo, newCourseAside(t), zap.NewNop())

	for i := 0; i < 2; i++ {
		page, err := svc.List(ctx, ListQuery{})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, int64(1), page.Total)
	}
	repo.AssertExpectations(t)
}
