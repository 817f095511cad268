// Package staking coordinates the approve, stake, and unstake flows as a
// small state machine over the chain client, the allowance service, and the
// balance service.
package staking

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/turkyfun/stakectl/internal/chain"
	"github.com/turkyfun/stakectl/internal/config"
	"github.com/turkyfun/stakectl/internal/notify"
	"github.com/turkyfun/stakectl/internal/service/allowance"
	"github.com/turkyfun/stakectl/internal/service/balance"
	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// State is the orchestrator's current phase. Exactly one mutating flow may
// be in flight at a time.
type State int

// Orchestrator states. Checking covers the allowance read that decides
// whether an ApproveOrStake invocation approves or stakes; it is non-Idle
// so overlapping calls are rejected before the decision lands.
const (
	StateIdle State = iota
	StateChecking
	StateApproving
	StateStaking
	StateUnstaking
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateApproving:
		return "approving"
	case StateStaking:
		return "staking"
	case StateUnstaking:
		return "unstaking"
	default:
		return "unknown"
	}
}

// ChainWriter submits the two staking-contract transactions and waits for
// them to be mined.
type ChainWriter interface {
	MintAndStake(ctx context.Context, amount *big.Int) (*types.Receipt, error)
	WithdrawStake(ctx context.Context) (*types.Receipt, error)
}

// AllowanceService checks and grants the token spend approval.
type AllowanceService interface {
	Check(ctx context.Context, owner common.Address) (allowance.State, error)
	Approve(ctx context.Context) (*types.Receipt, error)
}

// BalanceService refreshes and caches the balance snapshot.
type BalanceService interface {
	Refresh(ctx context.Context, owner common.Address) balance.Snapshot
	Last() balance.Snapshot
}

// Options configures an Orchestrator.
type Options struct {
	Chain     ChainWriter
	Allowance AllowanceService
	Balances  BalanceService
	Notify    notify.Sink

	// UnlockAt is the deadline before which unstaking is rejected.
	UnlockAt time.Time

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time

	Logger *config.Logger
}

// Orchestrator runs the approve, stake, and unstake flows. All methods are
// safe for concurrent use; concurrent mutating calls beyond the first are
// rejected, not queued.
type Orchestrator struct {
	chain     ChainWriter
	allowance AllowanceService
	balances  BalanceService
	notify    notify.Sink
	unlockAt  time.Time
	now       func() time.Time
	logger    *config.Logger

	mu    sync.Mutex
	state State
	owner common.Address
	bound bool
}

// New builds an Orchestrator in the Idle state with no active session.
func New(opts Options) *Orchestrator {
	if opts.Notify == nil {
		opts.Notify = notify.Null{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = config.NullLogger()
	}
	return &Orchestrator{
		chain:     opts.Chain,
		allowance: opts.Allowance,
		balances:  opts.Balances,
		notify:    opts.Notify,
		unlockAt:  opts.UnlockAt,
		now:       opts.Now,
		logger:    opts.Logger,
	}
}

// Bind attaches the orchestrator to the active session's address. Mutating
// calls without a bound session fail with a not-ready error.
func (o *Orchestrator) Bind(owner common.Address) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.owner = owner
	o.bound = true
}

// Unbind detaches the orchestrator from the session.
func (o *Orchestrator) Unbind() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.owner = common.Address{}
	o.bound = false
}

// State returns the current phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// begin is the Idle-gate check-and-set. It validates the session and takes
// the state machine into next atomically, so overlapping mutating calls are
// rejected before any chain interaction.
func (o *Orchestrator) begin(next State) (common.Address, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.bound {
		return common.Address{}, stakeerr.ErrNotReady
	}
	if o.state != StateIdle {
		return common.Address{}, stakeerr.WithDetails(stakeerr.ErrAlreadyInProgress, map[string]string{
			"state": o.state.String(),
		})
	}
	o.state = next
	return o.owner, nil
}

// setState transitions between phases mid-flight, e.g. once the allowance
// check decides whether this invocation approves or stakes.
func (o *Orchestrator) setState(next State) {
	o.mu.Lock()
	o.state = next
	o.mu.Unlock()
}

// ApproveOrStake performs one unit of work per invocation: if the current
// allowance is below the required threshold it submits the approval and
// stops; otherwise it converts amount from decimal tokens to base units and
// submits the stake. Approval and staking are never chained in one call, so
// after a successful approval the caller invokes this again to stake.
//
// Regardless of outcome, one allowance check and one balance refresh run
// before control returns; local state is re-derived from chain rather than
// trusted after a mutation or a failure.
func (o *Orchestrator) ApproveOrStake(ctx context.Context, amount string) error {
	owner, err := o.begin(StateChecking)
	if err != nil {
		return err
	}
	defer o.setState(StateIdle)
	defer o.resync(ctx, owner)

	state, err := o.allowance.Check(ctx, owner)
	if err != nil {
		o.logger.Error("allowance check failed: %v", err)
		o.notify.TransactionFailed("approval")
		return err
	}

	if state.NeedsApproval {
		return o.runApproval(ctx)
	}
	return o.runStake(ctx, amount)
}

func (o *Orchestrator) runApproval(ctx context.Context) error {
	o.setState(StateApproving)

	if _, err := o.allowance.Approve(ctx); err != nil {
		o.logger.Error("approval failed: %v", err)
		o.notify.TransactionFailed("approval")
		return err
	}

	o.notify.ApprovalSucceeded()
	return nil
}

func (o *Orchestrator) runStake(ctx context.Context, amount string) error {
	o.setState(StateStaking)

	baseUnits, err := chain.ParseTokenAmount(amount)
	if err != nil {
		o.notify.TransactionFailed("staking")
		return err
	}
	// Re-validated here, not just at the chain layer: a zero amount must
	// never reach submission.
	if baseUnits.Sign() <= 0 {
		o.notify.TransactionFailed("staking")
		return stakeerr.WithSuggestion(stakeerr.ErrInvalidAmount,
			"stake amount must be greater than zero")
	}

	if _, err := o.chain.MintAndStake(ctx, baseUnits); err != nil {
		o.logger.Error("stake failed: %v", err)
		o.notify.TransactionFailed("staking")
		return err
	}

	o.notify.StakeSucceeded(amount)
	return nil
}

// Unstake withdraws the full staked position. Eligibility is validated
// against the clock and the last balance snapshot before any chain call;
// the snapshot may lag chain state by up to the polling interval, which is
// tolerated rather than spending a fresh read on a guard the contract
// enforces anyway.
func (o *Orchestrator) Unstake(ctx context.Context) error {
	o.mu.Lock()
	if !o.bound {
		o.mu.Unlock()
		return stakeerr.ErrNotReady
	}
	if o.state != StateIdle {
		state := o.state
		o.mu.Unlock()
		return stakeerr.WithDetails(stakeerr.ErrAlreadyInProgress, map[string]string{
			"state": state.String(),
		})
	}
	o.mu.Unlock()

	if now := o.now(); now.Before(o.unlockAt) {
		return stakeerr.WithSuggestion(stakeerr.WithDetails(stakeerr.ErrNotEligible, map[string]string{
			"unlock_at": o.unlockAt.Format(time.RFC3339),
		}), "Wait for the unlock date before unstaking")
	}
	if o.balances.Last().Staked.Sign() <= 0 {
		return stakeerr.WithSuggestion(stakeerr.ErrNotEligible, "Nothing is staked for this wallet")
	}

	owner, err := o.begin(StateUnstaking)
	if err != nil {
		return err
	}
	defer o.setState(StateIdle)
	defer func() { o.balances.Refresh(ctx, owner) }()

	if _, err := o.chain.WithdrawStake(ctx); err != nil {
		o.logger.Error("unstake failed: %v", err)
		o.notify.TransactionFailed("unstaking")
		return err
	}

	o.notify.UnstakeSucceeded()
	return nil
}

// resync re-reads the allowance and both balances. Failures are logged and
// dropped; this runs after mutating flows where the primary error has
// already been decided.
func (o *Orchestrator) resync(ctx context.Context, owner common.Address) {
	if _, err := o.allowance.Check(ctx, owner); err != nil {
		o.logger.Error("post-action allowance check failed: %v", err)
	}
	o.balances.Refresh(ctx, owner)
}
