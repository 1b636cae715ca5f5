package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/campus/backend/internal/domain/shared"
)

// newMockDB creates a GORM connection backed by sqlmock, used to drive
// error paths that an in-memory database cannot produce.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormCourseRepository_FindByID_Mock(t *testing.T) {
	t.Run("finds existing course", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCourseRepository(db)

		rows := sqlmock.NewRows([]string{"id", "title", "credits"}).
			AddRow(301, "Distributed Systems", 6)
		mock.ExpectQuery(`SELECT \* FROM "courses" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(301, 1).
			WillReturnRows(rows)

		course, err := repo.FindByID(context.Background(), 301)
		require.NoError(t, err)
		assert.Equal(t, "Distributed Systems", course.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCourseRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "courses"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "credits"}))

		_, err := repo.FindByID(context.Background(), 999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("propagates connection errors", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCourseRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "courses"`).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.FindByID(context.Background(), 301)
		require.Error(t, err)
		assert.NotErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormEnrollmentRepository_Count_Mock(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormEnrollmentRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "enrollments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
