package resilience

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config holds timeout, retry and circuit breaker settings.
type Config struct {
	CallTimeout      time.Duration // per-attempt deadline
	RetryCount       int           // retries after the initial attempt
	RetryBaseDelay   time.Duration // backoff base, doubled per retry
	FailureThreshold int           // consecutive failures before opening
	OpenDuration     time.Duration // how long an open circuit rejects calls
}

// DefaultConfig returns the standard production settings.
func DefaultConfig() Config {
	return Config{
		CallTimeout:      2 * time.Second,
		RetryCount:       3,
		RetryBaseDelay:   2 * time.Second,
		FailureThreshold: 5,
		OpenDuration:     30 * time.Second,
	}
}

// Executor wraps outbound calls with a per-attempt timeout, exponential
// backoff retries and a per-target circuit breaker, in that order: the
// breaker observes the outcome of each individual attempt.
type Executor struct {
	cfg     Config
	breaker *Breaker
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithSleep overrides the backoff sleep, used by tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) ExecutorOption {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// WithBreaker substitutes the executor's circuit breaker.
func WithBreaker(b *Breaker) ExecutorOption {
	return func(e *Executor) {
		e.breaker = b
	}
}

// NewExecutor creates an executor with the given settings.
func NewExecutor(cfg Config, logger *zap.Logger, opts ...ExecutorOption) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Executor{
		cfg:     cfg,
		breaker: NewBreaker(cfg.FailureThreshold, cfg.OpenDuration, logger),
		logger:  logger.Named("resilience"),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Breaker exposes the executor's circuit breaker for health reporting.
func (e *Executor) Breaker() *Breaker {
	return e.breaker
}

// Do invokes fn against the named target. Each attempt runs under the
// configured call timeout. Transient failures are retried with delays of
// base, 2*base, 4*base and so on; a failure marked Permanent aborts
// immediately and is returned unwrapped to the caller. When the target's
// circuit is open, or every attempt fails, Do returns an error wrapping
// ErrDownstreamUnavailable.
func (e *Executor) Do(ctx context.Context, target string, fn func(ctx context.Context) error) error {
	if !e.breaker.Allow(target) {
		return fmt.Errorf("%s: circuit open: %w", target, ErrDownstreamUnavailable)
	}

	var lastErr error
	attempts := e.cfg.RetryCount + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := e.cfg.RetryBaseDelay << (attempt - 1)
			e.logger.Info("retrying call",
				zap.String("target", target),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := e.sleep(ctx, delay); err != nil {
				return err
			}
			// The breaker may have opened while this caller was backing off.
			if !e.breaker.Allow(target) {
				return fmt.Errorf("%s: circuit open: %w", target, ErrDownstreamUnavailable)
			}
		}

		err := e.attempt(ctx, fn)
		if err == nil {
			e.breaker.OnSuccess(target)
			return nil
		}
		if IsPermanent(err) {
			// Not a downstream fault. The breaker ignores it.
			return err
		}
		e.breaker.OnFailure(target)
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	e.logger.Warn("call failed after retries",
		zap.String("target", target),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	return fmt.Errorf("%s: %v: %w", target, lastErr, ErrDownstreamUnavailable)
}

func (e *Executor) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()
	return fn(attemptCtx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
