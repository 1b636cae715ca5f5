package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudent(t *testing.T) {
	t.Run("creates student with normalized fields", func(t *testing.T) {
		enrolled := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
		student, err := NewStudent("  Ada ", "Lovelace", "Ada@Example.Com", enrolled)
		require.NoError(t, err)

		assert.Equal(t, "Ada", student.FirstName)
		assert.Equal(t, "Lovelace", student.LastName)
		assert.Equal(t, "ada@example.com", student.Email)
		assert.Equal(t, enrolled, student.EnrolledAt)
		assert.Equal(t, "Ada Lovelace", student.FullName())
	})

	t.Run("defaults enrollment date to now", func(t *testing.T) {
		student, err := NewStudent("Ada", "Lovelace", "ada@example.com", time.Time{})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), student.EnrolledAt, time.Second)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := NewStudent("", "Lovelace", "ada@example.com", time.Now())
		assert.Error(t, err)

		_, err = NewStudent("Ada", "   ", "ada@example.com", time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewStudent("Ada", "Lovelace", "not-an-email", time.Now())
		assert.Error(t, err)
	})
}

func TestStudent_Update(t *testing.T) {
	student, err := NewStudent("Ada", "Lovelace", "ada@example.com", time.Now())
	require.NoError(t, err)

	require.NoError(t, student.Update("Grace", "Hopper", "grace@example.com"))
	assert.Equal(t, "Grace", student.FirstName)
	assert.Equal(t, "Hopper", student.LastName)
	assert.Equal(t, "grace@example.com", student.Email)

	assert.Error(t, student.Update("", "Hopper", "grace@example.com"))
}

func TestNewCourse(t *testing.T) {
	t.Run("creates course with assigned ID", func(t *testing.T) {
		course, err := NewCourse(1050, "Chemistry", 3)
		require.NoError(t, err)

		assert.Equal(t, int64(1050), course.ID)
		assert.Equal(t, "Chemistry", course.Title)
		assert.Equal(t, 3, course.Credits)
	})

	t.Run("rejects missing ID", func(t *testing.T) {
		_, err := NewCourse(0, "Chemistry", 3)
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range credits", func(t *testing.T) {
		_, err := NewCourse(1050, "Chemistry", 0)
		assert.Error(t, err)
	})
}

func TestCourse_Update(t *testing.T) {
	course, err := NewCourse(1050, "Chemistry", 3)
	require.NoError(t, err)

	require.NoError(t, course.Update("Organic Chemistry", 4))
	assert.Equal(t, "Organic Chemistry", course.Title)
	assert.Equal(t, 4, course.Credits)

	assert.Error(t, course.Update("", 4))
}
