package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/Taichi-iskw/yt-metrics/internal/errors"
)

// fakeSleep records requested delays without waiting
func fakeSleep(delays *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestPolicy_Do_SucceedsFirstTry(t *testing.T) {
	var delays []time.Duration
	p := NewPolicy(3, 5*time.Second)
	p.sleep = fakeSleep(&delays)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestPolicy_Do_RetriesTransientWithBackoff(t *testing.T) {
	var delays []time.Duration
	p := NewPolicy(3, 5*time.Second)
	p.sleep = fakeSleep(&delays)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return apperrors.New(apperrors.CodeTransient, "503 from API")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, delays)
}

func TestPolicy_Do_ExhaustsAttempts(t *testing.T) {
	var delays []time.Duration
	p := NewPolicy(3, time.Second)
	p.sleep = fakeSleep(&delays)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return apperrors.New(apperrors.CodeTransient, "connection reset")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	// no sleep after the final attempt
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
	assert.True(t, apperrors.IsTransient(err))
	assert.Contains(t, err.Error(), "all 3 attempts failed")
}

func TestPolicy_Do_QuotaExceededNeverRetried(t *testing.T) {
	var delays []time.Duration
	p := NewPolicy(3, time.Second)
	p.sleep = fakeSleep(&delays)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return apperrors.New(apperrors.CodeQuotaExceeded, "daily budget spent")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
	assert.True(t, apperrors.IsQuotaExceeded(err))
}

func TestPolicy_Do_FatalErrorNotRetried(t *testing.T) {
	var delays []time.Duration
	p := NewPolicy(3, time.Second)
	p.sleep = fakeSleep(&delays)

	fatal := apperrors.New(apperrors.CodeExternal, "404 from API")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return fatal
	})

	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
	assert.ErrorIs(t, err, fatal)
}

func TestPolicy_Do_DeadlineExpiryIsRetried(t *testing.T) {
	var delays []time.Duration
	p := NewPolicy(2, time.Second)
	p.sleep = fakeSleep(&delays)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return context.DeadlineExceeded
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPolicy_Do_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPolicy(3, time.Minute)

	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		return apperrors.New(apperrors.CodeTransient, "connection reset")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolicy_Do_PlainErrorNotRetried(t *testing.T) {
	p := NewPolicy(3, time.Second)
	p.sleep = fakeSleep(&[]time.Duration{})

	boom := errors.New("programming error")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return boom
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, boom)
}
