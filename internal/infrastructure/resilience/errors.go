package resilience

import (
	"errors"
	"fmt"
)

// ErrDownstreamUnavailable is returned when a call cannot be completed
// because the circuit breaker is open or all retries were exhausted.
var ErrDownstreamUnavailable = errors.New("downstream unavailable")

// PermanentError wraps an error that must not be retried, such as a
// rejected request. It does not count toward the circuit breaker.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err is marked non-retryable.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}
