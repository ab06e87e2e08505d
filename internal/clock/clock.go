// Package clock provides the local time source and cancellable sleeps.
package clock

import (
	"context"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

// Clock provides the raw local time and a cancellable sleep.
type Clock interface {
	Now() model.Timestamp
	Sleep(ctx context.Context, d time.Duration) error
}

// System is the Clock backed by the host wall clock.
type System struct{}

// Now returns the current local time.
func (System) Now() model.Timestamp {
	return model.TimestampFromTime(time.Now())
}

// Sleep waits for d or until ctx is done.
func (System) Sleep(ctx context.Context, d time.Duration) error {
	return SleepWithContext(ctx, d)
}

// SleepWithContext waits for d or returns ctx.Err() once ctx is done.
// A non-positive d only checks ctx.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
