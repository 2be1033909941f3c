package retry

import (
	"context"
	"time"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Executor runs an operation, retrying it while the classifier reports
// the failure as transient and the strategy allows another attempt.
type Executor struct {
	classifier pgframe.ErrorClassifier
	strategy   pgframe.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor panics if classifier or strategy is nil.
func NewExecutor(classifier pgframe.ErrorClassifier, strategy pgframe.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("retry: classifier cannot be nil")
	}
	if strategy == nil {
		panic("retry: strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of e that calls fn before each wait.
func (e *Executor) WithOnRetry(fn func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = fn
	return &clone
}

// Execute returns nil on the first success, otherwise the last error.
// A cancelled context ends the loop with the context's error.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)
	maxAttempts := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if maxAttempts >= 0 && attempt >= maxAttempts {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}
	return err
}
