// Package retry re-runs an operation that failed with a transient error,
// waiting an exponentially growing delay between attempts.
//
// It is used for the initial database connection only. Statements inside
// a load transaction are never retried.
//
// # Example Usage
//
//	executor := retry.NewExecutor(
//	    retry.NewSQLErrorClassifier(),
//	    retry.NewExponentialBackoff(cfg.ConnectRetries),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return session.Ping(ctx)
//	})
//
// The classifier understands PostgreSQL SQLSTATE classes, MySQL server
// error numbers, database/sql bad-connection errors and network errors.
package retry
