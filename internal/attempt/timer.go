package attempt

import (
	"context"
	"fmt"
	"time"

	"github.com/examsetu/examsetu-client/internal/model"
)

// TickResult reports one countdown step.
type TickResult struct {
	Remaining int
	// AutoSubmitted is set on the single tick that reached zero.
	AutoSubmitted bool
	Receipt       *model.SubmitReceipt
	Err           error
}

// Tick advances the countdown by one second. Ticks only count while the
// attempt is in progress. Reaching zero triggers exactly one automatic
// submission; if that submission fails the student may retry manually.
func (c *Controller) Tick(ctx context.Context) TickResult {
	c.mu.Lock()
	if c.state != StateInProgress || c.remaining <= 0 {
		r := TickResult{Remaining: c.remaining}
		c.mu.Unlock()
		return r
	}
	c.remaining--
	res := TickResult{Remaining: c.remaining}
	fire := c.remaining == 0 && !c.expired
	if fire {
		c.expired = true
	}
	c.mu.Unlock()

	if fire {
		c.log.Warn().Msg("Time is up, submitting automatically")
		res.AutoSubmitted = true
		res.Receipt, res.Err = c.Submit(ctx, model.SubmitTriggerTimer)
	}
	return res
}

// RunTimer ticks every interval until ctx is done or the attempt is submitted.
// onTick may be nil.
func (c *Controller) RunTimer(ctx context.Context, interval time.Duration, onTick func(TickResult)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := c.Tick(ctx)
			if onTick != nil {
				onTick(res)
			}
			if c.State() == StateSubmitted {
				return
			}
		}
	}
}

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
