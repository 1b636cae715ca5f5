package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnrollment(t *testing.T) {
	t.Run("creates enrollment with course snapshot", func(t *testing.T) {
		enrollment, err := NewEnrollment(3, 1050, "Chemistry", 3)
		require.NoError(t, err)

		assert.Equal(t, int64(3), enrollment.StudentID)
		assert.Equal(t, int64(1050), enrollment.CourseID)
		assert.Equal(t, "Chemistry", enrollment.CourseTitle)
		assert.Equal(t, 3, enrollment.CourseCredits)
		assert.Nil(t, enrollment.Grade)
		assert.WithinDuration(t, time.Now(), enrollment.CreatedAt, time.Second)
	})

	t.Run("rejects non-positive student ID", func(t *testing.T) {
		_, err := NewEnrollment(0, 1050, "Chemistry", 3)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive course ID", func(t *testing.T) {
		_, err := NewEnrollment(3, -1, "Chemistry", 3)
		assert.Error(t, err)
	})

	t.Run("rejects empty title snapshot", func(t *testing.T) {
		_, err := NewEnrollment(3, 1050, "  ", 3)
		assert.Error(t, err)
	})

	t.Run("rejects invalid credits", func(t *testing.T) {
		_, err := NewEnrollment(3, 1050, "Chemistry", 0)
		assert.Error(t, err)

		_, err = NewEnrollment(3, 1050, "Chemistry", 31)
		assert.Error(t, err)
	})
}

func TestEnrollment_NaturalKey(t *testing.T) {
	enrollment, err := NewEnrollment(3, 1050, "Chemistry", 3)
	require.NoError(t, err)

	assert.Equal(t, "3:1050", enrollment.NaturalKey())
	assert.Equal(t, "3:1050", NaturalKey(3, 1050))
}

func TestEnrollment_AssignGrade(t *testing.T) {
	t.Run("assigns normalized grade", func(t *testing.T) {
		enrollment, err := NewEnrollment(3, 1050, "Chemistry", 3)
		require.NoError(t, err)

		require.NoError(t, enrollment.AssignGrade(" a+ "))
		require.NotNil(t, enrollment.Grade)
		assert.Equal(t, "A+", *enrollment.Grade)
	})

	t.Run("rejects empty grade", func(t *testing.T) {
		enrollment, err := NewEnrollment(3, 1050, "Chemistry", 3)
		require.NoError(t, err)

		assert.Error(t, enrollment.AssignGrade(""))
	})
}

func TestEnrollment_Ref(t *testing.T) {
	enrollment, err := NewEnrollment(3, 1050, "Chemistry", 3)
	require.NoError(t, err)
	require.NoError(t, enrollment.AssignGrade("B"))

	ref := enrollment.Ref()
	assert.Equal(t, int64(1050), ref.CourseID)
	assert.Equal(t, "Chemistry", ref.CourseTitle)
	assert.Equal(t, "B", ref.Grade)
}

func TestEnrollmentCreatedEvent(t *testing.T) {
	t.Run("carries the full snapshot", func(t *testing.T) {
		enrollment, err := NewEnrollment(3, 1050, "Chemistry", 3)
		require.NoError(t, err)

		event := NewEnrollmentCreatedEvent(enrollment)
		assert.Equal(t, EventTypeEnrollmentCreated, event.EventType())
		assert.Equal(t, "Enrollment", event.AggregateType())
		assert.Equal(t, "3:1050", event.AggregateKey())
		assert.NotEqual(t, event.EventID().String(), "00000000-0000-0000-0000-000000000000")
		assert.Equal(t, "Chemistry", event.CourseTitle)
		assert.Equal(t, 3, event.CourseCredits)
	})

	t.Run("rebuilds the enrollment record", func(t *testing.T) {
		original, err := NewEnrollment(3, 1050, "Chemistry", 3)
		require.NoError(t, err)
		require.NoError(t, original.AssignGrade("A"))

		event := NewEnrollmentCreatedEvent(original)
		rebuilt, err := event.Enrollment()
		require.NoError(t, err)

		assert.Equal(t, original.StudentID, rebuilt.StudentID)
		assert.Equal(t, original.CourseID, rebuilt.CourseID)
		assert.Equal(t, original.CourseTitle, rebuilt.CourseTitle)
		assert.Equal(t, original.CourseCredits, rebuilt.CourseCredits)
		require.NotNil(t, rebuilt.Grade)
		assert.Equal(t, "A", *rebuilt.Grade)
	})
}
