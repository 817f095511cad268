// Package allowance decides whether the staking contract may already pull
// tokens from the active wallet, and requests the unlimited approval when it
// may not.
package allowance

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// RequiredAllowance is the threshold, in base token units, below which a
// fresh approval is requested before staking. One whole token.
var RequiredAllowance = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// ChainReader reads the current ERC-20 allowance from the chain.
type ChainReader interface {
	Allowance(ctx context.Context, owner common.Address) (*big.Int, error)
}

// ChainApprover submits the unlimited approval transaction and waits for it
// to be mined.
type ChainApprover interface {
	ApproveMax(ctx context.Context) (*types.Receipt, error)
}

// State is the result of an allowance check.
type State struct {
	// Current is the allowance granted to the staking contract, in base
	// units.
	Current *big.Int

	// NeedsApproval is true when Current is strictly below the required
	// threshold. An allowance exactly at the threshold passes.
	NeedsApproval bool
}

// Service checks and grants spend approvals against a single token and
// spender pair.
type Service struct {
	reader   ChainReader
	approver ChainApprover
	required *big.Int
}

// New builds a Service using the default one-token threshold.
func New(reader ChainReader, approver ChainApprover) *Service {
	return &Service{
		reader:   reader,
		approver: approver,
		required: RequiredAllowance,
	}
}

// Check reads the allowance granted by owner to the staking contract and
// reports whether a new approval is needed. Read failures surface as
// ErrRead; callers decide whether that is fatal.
func (s *Service) Check(ctx context.Context, owner common.Address) (State, error) {
	current, err := s.reader.Allowance(ctx, owner)
	if err != nil {
		return State{}, stakeerr.Wrap(stakeerr.ErrRead, "checking token allowance: %v", err)
	}

	return State{
		Current:       current,
		NeedsApproval: current.Cmp(s.required) < 0,
	}, nil
}

// Approve grants the staking contract an unlimited spend approval and waits
// for the transaction to be mined. Errors pass through from the chain layer
// unchanged so the caller can distinguish a user rejection from a revert.
func (s *Service) Approve(ctx context.Context) (*types.Receipt, error) {
	return s.approver.ApproveMax(ctx)
}
