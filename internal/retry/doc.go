// Package retry re-runs operations that fail with transient errors,
// waiting between attempts according to a backoff strategy.
//
// pgframe uses it to open connections: a server that is still starting,
// a refused TCP connect or a "too many connections" rejection is retried,
// while authentication failures and SQL errors are returned at once.
//
//	executor := retry.NewExecutor(
//	    retry.NewPostgreSQLErrorClassifier(),
//	    retry.NewExponentialBackoff(3),
//	)
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    conn, err = pgx.Connect(ctx, dsn)
//	    return err
//	})
//
// Executor values are immutable once built; WithOnRetry returns a copy.
package retry
