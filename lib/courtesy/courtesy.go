// Package courtesy implements the polite inter-request pauses this tool
// inserts between hits to wordpress.org. The pauses exist purely as
// rate-limiting courtesy, so they are cancellable and slightly jittered to
// avoid a metronome request pattern.
package courtesy

import (
	"context"
	"time"

	"github.com/mazen160/go-random"
)

// Wait sleeps for roughly d (±20% jitter), returning early with ctx.Err()
// if the context is cancelled first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	jitterRange := int(d / 5)
	if jitterRange > 0 {
		jitter, err := random.IntRange(-jitterRange, jitterRange)
		if err == nil {
			d += time.Duration(jitter)
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
