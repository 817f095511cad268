package balance

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultPollInterval is the background refresh cadence.
const DefaultPollInterval = 30 * time.Second

// Poll refreshes the snapshot immediately and then on every interval tick
// until ctx is canceled. Tie the context to the wallet session so the loop
// dies with the session. A non-positive interval falls back to the default.
func (s *Service) Poll(ctx context.Context, owner common.Address, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	s.Refresh(ctx, owner)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx, owner)
		}
	}
}
