package booth

import (
	"context"
	"time"
)

// Countdown ticks from Seconds down to zero. It resolves on its own after
// Seconds+1 tick periods even when the ticker never fires.
type Countdown struct {
	Seconds int
	Tick    time.Duration

	// Ticker replaces time.NewTicker. The returned func stops it.
	Ticker func(time.Duration) (<-chan time.Time, func())
}

func (c Countdown) seconds() int {
	if c.Seconds <= 0 {
		return 3
	}
	return c.Seconds
}

func (c Countdown) tick() time.Duration {
	if c.Tick <= 0 {
		return time.Second
	}
	return c.Tick
}

func systemTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Run calls onTick with each remaining count and returns when the count
// reaches zero, the failsafe fires, or ctx is cancelled.
func (c Countdown) Run(ctx context.Context, onTick func(remaining int)) error {
	seconds, tick := c.seconds(), c.tick()
	newTicker := c.Ticker
	if newTicker == nil {
		newTicker = systemTicker
	}

	ticks, stop := newTicker(tick)
	defer stop()

	failsafe := time.NewTimer(time.Duration(seconds+1) * tick)
	defer failsafe.Stop()

	remaining := seconds
	if onTick != nil {
		onTick(remaining)
	}
	for remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-failsafe.C:
			return nil
		case <-ticks:
			remaining--
			if remaining > 0 && onTick != nil {
				onTick(remaining)
			}
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
