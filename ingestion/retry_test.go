package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyOp fails its first n calls with errFlaky and records each call time.
type flakyOp struct {
	failures int
	calls    []time.Time
}

var errFlaky = errors.New("provider hiccup")

func (f *flakyOp) run() error {
	f.calls = append(f.calls, time.Now())
	if len(f.calls) <= f.failures {
		return errFlaky
	}
	return nil
}

func TestRetryWithBackoff_Attempts(t *testing.T) {
	tests := []struct {
		name        string
		failures    int
		maxAttempts int
		wantCalls   int
		wantErr     error
	}{
		{"first try", 0, 3, 1, nil},
		{"recovers on third", 2, 5, 3, nil},
		{"gives up", 10, 3, 3, errFlaky},
		{"single attempt", 1, 1, 1, errFlaky},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &flakyOp{failures: tt.failures}
			err := RetryWithBackoff(context.Background(), nil, op.run, tt.maxAttempts, time.Millisecond)

			assert.Len(t, op.calls, tt.wantCalls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoff_NoSleepAfterLastAttempt(t *testing.T) {
	op := &flakyOp{failures: 1}
	start := time.Now()
	err := RetryWithBackoff(context.Background(), nil, op.run, 1, time.Hour)
	assert.ErrorIs(t, err, errFlaky)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetryWithBackoff_DelayDoubles(t *testing.T) {
	op := &flakyOp{failures: 3}
	err := RetryWithBackoff(context.Background(), nil, op.run, 4, 10*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, op.calls, 4)

	gaps := make([]time.Duration, 0, 3)
	for i := 1; i < len(op.calls); i++ {
		gaps = append(gaps, op.calls[i].Sub(op.calls[i-1]))
	}
	assert.GreaterOrEqual(t, gaps[0], 10*time.Millisecond)
	assert.Greater(t, gaps[1], gaps[0])
	assert.Greater(t, gaps[2], gaps[1])
}

func TestRetryWithBackoff_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	op := func() error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errFlaky
	}

	err := RetryWithBackoff(ctx, nil, op, 10, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestRetryWithBackoff_CanceledErrorIsNotRetried(t *testing.T) {
	calls := 0
	op := func() error {
		calls++
		return fmt.Errorf("request aborted: %w", context.Canceled)
	}

	err := RetryWithBackoff(context.Background(), nil, op, 5, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_DeadlineDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	op := &flakyOp{failures: 100}
	err := RetryWithBackoff(ctx, nil, op.run, 10, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, len(op.calls), 10)
}

func TestRetryWithBackoff_InvalidMaxAttempts(t *testing.T) {
	for _, n := range []int{0, -1} {
		op := &flakyOp{}
		err := RetryWithBackoff(context.Background(), nil, op.run, n, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
		assert.Empty(t, op.calls, "maxAttempts=%d", n)
	}
}
