package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus/backend/internal/domain/registry"
	"github.com/campus/backend/internal/domain/shared"
)

func TestSanitizeSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", sanitizeSortOrder("asc"))
	assert.Equal(t, "ASC", sanitizeSortOrder(" ASC "))
	assert.Equal(t, "DESC", sanitizeSortOrder("desc"))
	assert.Equal(t, "DESC", sanitizeSortOrder(""))
	assert.Equal(t, "DESC", sanitizeSortOrder("asc; DROP TABLE students"))
}

func TestSanitizeSortField(t *testing.T) {
	assert.Equal(t, "email", sanitizeSortField("email", studentSortFields))
	assert.Equal(t, "created_at", sanitizeSortField("", studentSortFields))
	assert.Equal(t, "created_at", sanitizeSortField("email; --", studentSortFields))
	assert.Equal(t, "created_at", sanitizeSortField("password", studentSortFields))
	assert.Equal(t, "title", sanitizeSortField("title", courseSortFields))
	assert.Equal(t, "created_at", sanitizeSortField("email", courseSortFields))
}

func TestStudentRepository_OrderByWhitelist(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStudentRepository(db)
	ctx := context.Background()

	// Creation times run opposite to email order so the two orderings
	// are distinguishable: a@ is the newest row, c@ the oldest.
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i, email := range []string{"a@example.edu", "b@example.edu", "c@example.edu"} {
		student, err := registry.NewStudent("First", "Last", email, time.Time{})
		require.NoError(t, err)
		student.CreatedAt = base.Add(-time.Duration(i) * time.Hour)
		require.NoError(t, repo.Save(ctx, student))
	}

	t.Run("whitelisted column is honored", func(t *testing.T) {
		students, err := repo.FindAll(ctx, shared.Filter{OrderBy: "email", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, students, 3)
		assert.Equal(t, "a@example.edu", students[0].Email)
	})

	t.Run("sql expression falls back to created_at", func(t *testing.T) {
		// Ascending email order would put a@ first; the expression is
		// rejected, so ordering falls back to created_at and the
		// oldest row (c@) leads.
		filter := shared.Filter{
			OrderBy:  "(SELECT CASE WHEN (SELECT COUNT(*) FROM students) > 0 THEN students.email END)",
			OrderDir: "asc",
		}
		students, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, students, 3)
		assert.Equal(t, "c@example.edu", students[0].Email)
		assert.Equal(t, "a@example.edu", students[2].Email)
	})

	t.Run("unknown column falls back to created_at", func(t *testing.T) {
		students, err := repo.FindAll(ctx, shared.Filter{OrderBy: "no_such_column", OrderDir: "desc"})
		require.NoError(t, err)
		require.Len(t, students, 3)
		assert.Equal(t, "a@example.edu", students[0].Email)
	})
}
