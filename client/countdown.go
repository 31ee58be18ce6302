package client

import (
	"context"
	"time"
)

// Remaining returns the whole seconds left until expiredAt, clamped to zero.
func Remaining(expiredAt, now time.Time) int {
	secs := int(expiredAt.Sub(now) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// CountdownTicker emits the remaining whole seconds once per second,
// starting with the current value. The channel closes when the countdown
// reaches zero or the context is cancelled.
func CountdownTicker(ctx context.Context, expiredAt time.Time) <-chan int {
	out := make(chan int, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			remaining := Remaining(expiredAt, time.Now())
			select {
			case out <- remaining:
			case <-ctx.Done():
				return
			}
			if remaining == 0 {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}
