package rabbit

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/cenkalti/backoff/v4"
)

// isRecoverableError returns true if the provided error must be requeued.
// Records that can never be stored are dropped.
func isRecoverableError(err error) bool {
	return !oneOf(err, types.ErrUserNotFound, types.ErrInvalidSession)
}

func oneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// retry runs fn up to n+1 times with exponential backoff starting at initial.
func retry(ctx context.Context, n uint64, initial time.Duration, fn func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = initial
	return backoff.Retry(fn, backoff.WithContext(backoff.WithMaxRetries(eb, n), ctx))
}

// sleepCtx waits d or until ctx ends.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
