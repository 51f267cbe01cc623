package retry

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/Taichi-iskw/yt-metrics/internal/errors"
)

// Policy defines bounded exponential backoff for remote calls
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// sleep is swapped out in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPolicy creates a retry policy with exponential backoff
func NewPolicy(maxAttempts int, baseDelay time.Duration) *Policy {
	return &Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
	}
}

// Do runs op under the policy. Transient failures are retried with a
// delay of BaseDelay * 2^attempt between tries. Quota-exhaustion
// failures are never retried: the daily budget cannot recover within
// a run, so another attempt only spends more of it. Any other failure
// propagates immediately.
func (p *Policy) Do(ctx context.Context, op func() error) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = wait
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if apperrors.IsQuotaExceeded(err) {
			return err
		}
		if !apperrors.IsTransient(err) {
			return err
		}

		// Don't sleep after the last attempt
		if attempt == p.MaxAttempts-1 {
			break
		}

		if werr := sleep(ctx, p.delay(attempt)); werr != nil {
			return fmt.Errorf("retry cancelled: %w", werr)
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", p.MaxAttempts, lastErr)
}

func (p *Policy) delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<attempt)
}

// wait blocks for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
