package resilience

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the circuit breaker state for a single target.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type targetState struct {
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// Breaker tracks circuit state per named target. All targets share the
// same threshold and open duration; state is independent per target.
type Breaker struct {
	mu        sync.Mutex
	targets   map[string]*targetState
	threshold int
	openFor   time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// BreakerOption configures a Breaker.
type BreakerOption func(*Breaker)

// WithClock overrides the breaker's time source.
func WithClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) {
		b.now = now
	}
}

// NewBreaker creates a breaker that opens a target after threshold
// consecutive failures and keeps it open for openFor.
func NewBreaker(threshold int, openFor time.Duration, logger *zap.Logger, opts ...BreakerOption) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Breaker{
		targets:   make(map[string]*targetState),
		threshold: threshold,
		openFor:   openFor,
		now:       time.Now,
		logger:    logger.Named("breaker"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) target(name string) *targetState {
	ts, ok := b.targets[name]
	if !ok {
		ts = &targetState{state: StateClosed}
		b.targets[name] = ts
	}
	return ts
}

// Allow reports whether a call to target may proceed. When the open
// duration has elapsed the target moves to half-open and exactly one
// probe call is admitted until its outcome is recorded.
func (b *Breaker) Allow(target string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ts := b.target(target)
	switch ts.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Sub(ts.openedAt) < b.openFor {
			return false
		}
		ts.state = StateHalfOpen
		ts.probing = true
		b.logger.Info("circuit half-open, admitting probe", zap.String("target", target))
		return true
	case StateHalfOpen:
		if ts.probing {
			return false
		}
		ts.probing = true
		return true
	default:
		return false
	}
}

// OnSuccess records a successful call and closes the target's circuit.
func (b *Breaker) OnSuccess(target string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ts := b.target(target)
	if ts.state != StateClosed {
		b.logger.Info("circuit closed", zap.String("target", target))
	}
	ts.state = StateClosed
	ts.failures = 0
	ts.probing = false
}

// OnFailure records a failed call. A half-open probe failure reopens the
// circuit immediately; in the closed state the circuit opens once the
// consecutive failure count reaches the threshold.
func (b *Breaker) OnFailure(target string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ts := b.target(target)
	switch ts.state {
	case StateHalfOpen:
		ts.state = StateOpen
		ts.openedAt = b.now()
		ts.probing = false
		b.logger.Warn("probe failed, circuit reopened", zap.String("target", target))
	case StateClosed:
		ts.failures++
		if ts.failures >= b.threshold {
			ts.state = StateOpen
			ts.openedAt = b.now()
			b.logger.Warn("circuit opened",
				zap.String("target", target),
				zap.Int("consecutive_failures", ts.failures),
			)
		}
	}
}

// State returns the current state for target without side effects.
func (b *Breaker) State(target string) State {
	b.mu.Lock()
	defer b.mu.Unlock()

	ts, ok := b.targets[target]
	if !ok {
		return StateClosed
	}
	return ts.state
}
