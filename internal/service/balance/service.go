// Package balance maintains the wallet's staked and reward balances as a
// single snapshot, refreshed on demand and on a fixed polling cadence.
package balance

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/turkyfun/stakectl/internal/config"
)

// ChainReader reads the two balances the snapshot is built from.
type ChainReader interface {
	StakedBalance(ctx context.Context, owner common.Address) (*big.Int, error)
	RewardBalance(ctx context.Context, owner common.Address) (*big.Int, error)
}

// Snapshot is one consistent view of the wallet's balances, in base units.
// Both fields are always non-nil.
type Snapshot struct {
	Staked *big.Int
	Reward *big.Int
}

func zeroSnapshot() Snapshot {
	return Snapshot{Staked: new(big.Int), Reward: new(big.Int)}
}

// Service refreshes and caches the balance snapshot for a single owner
// address. Safe for concurrent use.
type Service struct {
	reader ChainReader
	logger *config.Logger

	mu   sync.RWMutex
	last Snapshot
}

// New builds a Service. The initial snapshot is all zeros; logger may be
// nil.
func New(reader ChainReader, logger *config.Logger) *Service {
	if logger == nil {
		logger = config.NullLogger()
	}
	return &Service{
		reader: reader,
		logger: logger,
		last:   zeroSnapshot(),
	}
}

// Refresh reads both balances concurrently and replaces the stored snapshot
// wholesale. If either read fails the snapshot is reset to zeros rather
// than left stale or partially updated; the failure is logged, never
// returned. Display code downstream can therefore always trust the
// snapshot to be internally consistent.
func (s *Service) Refresh(ctx context.Context, owner common.Address) Snapshot {
	var (
		wg        sync.WaitGroup
		staked    *big.Int
		reward    *big.Int
		stakedErr error
		rewardErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		staked, stakedErr = s.reader.StakedBalance(ctx, owner)
	}()
	go func() {
		defer wg.Done()
		reward, rewardErr = s.reader.RewardBalance(ctx, owner)
	}()
	wg.Wait()

	next := zeroSnapshot()
	switch {
	case stakedErr != nil:
		s.logger.Error("balance refresh failed: %v", stakedErr)
	case rewardErr != nil:
		s.logger.Error("balance refresh failed: %v", rewardErr)
	default:
		next = Snapshot{
			Staked: new(big.Int).Set(staked),
			Reward: new(big.Int).Set(reward),
		}
	}

	s.mu.Lock()
	s.last = next
	s.mu.Unlock()
	return next
}

// Last returns the most recently stored snapshot.
func (s *Service) Last() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
