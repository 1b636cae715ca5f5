package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewBreaker(5, 30*time.Second, zap.NewNop())

	for i := 0; i < 4; i++ {
		b.OnFailure("course-service")
		assert.Equal(t, StateClosed, b.State("course-service"))
	}

	b.OnFailure("course-service")
	assert.Equal(t, StateOpen, b.State("course-service"))
	assert.False(t, b.Allow("course-service"))
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(3, 30*time.Second, zap.NewNop())

	b.OnFailure("course-service")
	b.OnFailure("course-service")
	b.OnSuccess("course-service")

	// Count restarts from zero, so two more failures do not open it.
	b.OnFailure("course-service")
	b.OnFailure("course-service")
	assert.Equal(t, StateClosed, b.State("course-service"))
}

func TestBreakerHalfOpenSingleProbe(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	b := NewBreaker(1, 30*time.Second, zap.NewNop(), WithClock(clock))

	b.OnFailure("course-service")
	assert.False(t, b.Allow("course-service"))

	now = now.Add(31 * time.Second)
	assert.True(t, b.Allow("course-service"), "first call after cooldown is the probe")
	assert.Equal(t, StateHalfOpen, b.State("course-service"))
	assert.False(t, b.Allow("course-service"), "only one probe in flight")
}

func TestBreakerProbeOutcomes(t *testing.T) {
	t.Run("probe success closes circuit", func(t *testing.T) {
		now := time.Now()
		b := NewBreaker(1, time.Second, zap.NewNop(), WithClock(func() time.Time { return now }))

		b.OnFailure("course-service")
		now = now.Add(2 * time.Second)
		assert.True(t, b.Allow("course-service"))

		b.OnSuccess("course-service")
		assert.Equal(t, StateClosed, b.State("course-service"))
		assert.True(t, b.Allow("course-service"))
	})

	t.Run("probe failure reopens circuit", func(t *testing.T) {
		now := time.Now()
		b := NewBreaker(1, time.Second, zap.NewNop(), WithClock(func() time.Time { return now }))

		b.OnFailure("course-service")
		now = now.Add(2 * time.Second)
		assert.True(t, b.Allow("course-service"))

		b.OnFailure("course-service")
		assert.Equal(t, StateOpen, b.State("course-service"))
		assert.False(t, b.Allow("course-service"))

		// The cooldown starts over from the reopen.
		now = now.Add(2 * time.Second)
		assert.True(t, b.Allow("course-service"))
	})
}

func TestBreakerTargetsAreIndependent(t *testing.T) {
	b := NewBreaker(1, 30*time.Second, zap.NewNop())

	b.OnFailure("course-service")
	assert.Equal(t, StateOpen, b.State("course-service"))
	assert.Equal(t, StateClosed, b.State("student-service"))
	assert.True(t, b.Allow("student-service"))
}
