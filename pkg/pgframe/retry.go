package pgframe

import "time"

// ErrorClassifier decides whether a failed attempt is worth repeating.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// BackoffStrategy paces repeated attempts.
type BackoffStrategy interface {
	// NextDelay returns the wait before retry number attempt (zero-indexed).
	NextDelay(attempt int) time.Duration

	// MaxAttempts bounds the number of retries: 0 disables retrying, -1 retries forever.
	MaxAttempts() int
}
