// Package countdown computes time remaining until a fixed deadline and runs
// the per-second tickers that keep the display and the eligibility gates
// current. The same component serves both deadlines (staking window close
// and unlock date).
package countdown

import (
	"context"
	"fmt"
	"time"
)

// TickInterval is the cadence of a running countdown.
const TickInterval = time.Second

// Remaining is the floor-truncated time left until a deadline.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int

	// Ended is true once the deadline has passed; the duration fields are
	// zero in that case.
	Ended bool
}

// String renders the remaining time as "Nd Nh Nm Ns", or the terminal
// marker for an ended countdown.
func (r Remaining) String() string {
	if r.Ended {
		return "ended"
	}
	return fmt.Sprintf("%dd %dh %dm %ds", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// Until computes the remaining time from now until deadline. Pure: all
// truncation is floor at each unit boundary, no rounding or carrying of
// fractional seconds. now >= deadline yields the terminal marker.
func Until(deadline, now time.Time) Remaining {
	diff := deadline.Sub(now)
	if diff <= 0 {
		return Remaining{Ended: true}
	}

	const (
		day    = 24 * time.Hour
		hour   = time.Hour
		minute = time.Minute
	)

	return Remaining{
		Days:    int(diff / day),
		Hours:   int((diff % day) / hour),
		Minutes: int((diff % hour) / minute),
		Seconds: int((diff % minute) / time.Second),
	}
}

// Run ticks once immediately and then every TickInterval, invoking fn with
// the current remaining time, until ctx is canceled. Each deadline gets its
// own Run; cancellation is independent per call.
func Run(ctx context.Context, deadline time.Time, fn func(Remaining)) {
	fn(Until(deadline, time.Now()))

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fn(Until(deadline, now))
		}
	}
}
