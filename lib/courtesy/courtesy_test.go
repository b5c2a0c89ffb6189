package courtesy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWait(t *testing.T) {
	start := time.Now()
	err := Wait(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	// jitter is at most 20%
	require.GreaterOrEqual(t, time.Since(start), 8*time.Millisecond)
}

func TestWaitZeroDuration(t *testing.T) {
	require.NoError(t, Wait(context.Background(), 0))
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Wait(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}
