package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/agropack/artworkflow/backend/workflow"
)

// throttled reports whether an error is a rate-limit signal. Only these are
// worth retrying; every other error class is fatal on the first attempt.
func throttled(err error) bool {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	switch resp.Code {
	case "SlowDown", "TooManyRequests", "RequestLimitExceeded":
		return true
	}
	return false
}

// sleeper waits for a backoff delay, honoring cancellation.
type sleeper func(ctx context.Context, d time.Duration) error

func defaultSleeper(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryWithBackoff runs fn up to attempts times, doubling the delay after each
// throttled failure. A non-throttling error is returned as-is; exhausting every
// attempt on throttling surfaces a TransientStorageError.
func retryWithBackoff(ctx context.Context, op string, attempts int, base time.Duration, sleep sleeper, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	delay := base
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !throttled(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}
		slog.Warn("storage throttled, backing off",
			"op", op,
			"attempt", attempt+1,
			"delay", delay,
		)
		if serr := sleep(ctx, delay); serr != nil {
			return serr
		}
		delay *= 2
	}
	return workflow.NewTransientStorage(op, attempts, err)
}
