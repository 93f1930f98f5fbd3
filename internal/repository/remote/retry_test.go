package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRecoversFromTransientFailure(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryReturnsLastError(t *testing.T) {
	calls := 0
	errLast := errors.New("still down")
	err := WithRetry(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("down")
		}
		return errLast
	})

	assert.ErrorIs(t, err, errLast)
	assert.Equal(t, 3, calls)
}

func TestWithRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := WithRetry(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
