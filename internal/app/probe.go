package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// probe calls ping until it succeeds, backing off between attempts.
func probe(ctx context.Context, name string, attempts uint64, ping func(context.Context) error) error {
	if attempts == 0 {
		attempts = 1
	}

	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(attempts-1, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := ping(pingCtx); err != nil {
			slog.WarnContext(ctx, "dependency not ready", "name", name, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
