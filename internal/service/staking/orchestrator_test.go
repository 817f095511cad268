package staking

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turkyfun/stakectl/internal/service/allowance"
	"github.com/turkyfun/stakectl/internal/service/balance"
	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

var testOwner = common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")

func oneToken() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
}

type mockChain struct {
	mu sync.Mutex

	stakeErr    error
	withdrawErr error

	stakeCalls    int
	stakedAmounts []*big.Int
	withdrawCalls int

	// blockStake holds MintAndStake open until released, to test the
	// in-progress gate.
	blockStake chan struct{}
}

func (m *mockChain) MintAndStake(_ context.Context, amount *big.Int) (*types.Receipt, error) {
	m.mu.Lock()
	m.stakeCalls++
	m.stakedAmounts = append(m.stakedAmounts, new(big.Int).Set(amount))
	block := m.blockStake
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if m.stakeErr != nil {
		return nil, m.stakeErr
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (m *mockChain) WithdrawStake(_ context.Context) (*types.Receipt, error) {
	m.mu.Lock()
	m.withdrawCalls++
	m.mu.Unlock()

	if m.withdrawErr != nil {
		return nil, m.withdrawErr
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

type mockAllowance struct {
	mu sync.Mutex

	needsApproval bool
	checkErr      error
	approveErr    error

	checkCalls   int
	approveCalls int

	// blockCheck holds Check open until released.
	blockCheck chan struct{}
}

func (m *mockAllowance) Check(_ context.Context, _ common.Address) (allowance.State, error) {
	m.mu.Lock()
	m.checkCalls++
	block := m.blockCheck
	m.blockCheck = nil
	needsApproval := m.needsApproval
	checkErr := m.checkErr
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if checkErr != nil {
		return allowance.State{}, checkErr
	}
	return allowance.State{Current: big.NewInt(0), NeedsApproval: needsApproval}, nil
}

func (m *mockAllowance) Approve(_ context.Context) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approveCalls++
	if m.approveErr != nil {
		return nil, m.approveErr
	}
	// A real approval leaves the allowance sufficient for the next call.
	m.needsApproval = false
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

type mockBalance struct {
	mu sync.Mutex

	staked *big.Int
	reward *big.Int

	refreshCalls int
}

func (m *mockBalance) snapshot() balance.Snapshot {
	staked, reward := m.staked, m.reward
	if staked == nil {
		staked = new(big.Int)
	}
	if reward == nil {
		reward = new(big.Int)
	}
	return balance.Snapshot{Staked: staked, Reward: reward}
}

func (m *mockBalance) Refresh(_ context.Context, _ common.Address) balance.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCalls++
	return m.snapshot()
}

func (m *mockBalance) Last() balance.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

type mockSink struct {
	mu sync.Mutex

	approvals int
	stakes    []string
	unstakes  int
	failures  []string
}

func (m *mockSink) ApprovalSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approvals++
}

func (m *mockSink) StakeSucceeded(amount string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stakes = append(m.stakes, amount)
}

func (m *mockSink) UnstakeSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unstakes++
}

func (m *mockSink) TransactionFailed(context string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, context)
}

type fixture struct {
	chain     *mockChain
	allowance *mockAllowance
	balances  *mockBalance
	sink      *mockSink
	orch      *Orchestrator
}

func newFixture(opts Options) *fixture {
	f := &fixture{
		chain:     &mockChain{},
		allowance: &mockAllowance{},
		balances:  &mockBalance{},
		sink:      &mockSink{},
	}
	opts.Chain = f.chain
	opts.Allowance = f.allowance
	opts.Balances = f.balances
	opts.Notify = f.sink
	f.orch = New(opts)
	f.orch.Bind(testOwner)
	return f
}

func pastUnlock() Options {
	return Options{
		UnlockAt: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
		Now: func() time.Time {
			return time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC)
		},
	}
}

func beforeUnlock() Options {
	return Options{
		UnlockAt: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
		Now: func() time.Time {
			return time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)
		},
	}
}

func TestApproveOrStake_ApprovesWhenAllowanceInsufficient(t *testing.T) {
	t.Parallel()
	f := newFixture(Options{})
	f.allowance.needsApproval = true

	err := f.orch.ApproveOrStake(context.Background(), "5")
	require.NoError(t, err)

	// One unit of work: approval only, no stake in the same call.
	assert.Equal(t, 1, f.allowance.approveCalls)
	assert.Equal(t, 0, f.chain.stakeCalls)
	assert.Equal(t, StateIdle, f.orch.State())

	// Decision check plus the unconditional post-action check.
	assert.Equal(t, 2, f.allowance.checkCalls)
	assert.Equal(t, 1, f.balances.refreshCalls)
	assert.False(t, f.allowance.needsApproval)

	assert.Equal(t, 1, f.sink.approvals)
	assert.Empty(t, f.sink.failures)
}

func TestApproveOrStake_StakesWhenAllowanceSufficient(t *testing.T) {
	t.Parallel()
	f := newFixture(Options{})
	f.allowance.needsApproval = false

	err := f.orch.ApproveOrStake(context.Background(), "5")
	require.NoError(t, err)

	assert.Equal(t, 0, f.allowance.approveCalls)
	require.Equal(t, 1, f.chain.stakeCalls)

	wantBase := new(big.Int).Mul(big.NewInt(5), oneToken())
	assert.Zero(t, wantBase.Cmp(f.chain.stakedAmounts[0]))

	assert.Equal(t, StateIdle, f.orch.State())
	assert.Equal(t, []string{"5"}, f.sink.stakes)
	assert.Equal(t, 2, f.allowance.checkCalls)
	assert.Equal(t, 1, f.balances.refreshCalls)
}

func TestApproveOrStake_RejectedWhileInFlight(t *testing.T) {
	t.Parallel()
	f := newFixture(Options{})
	f.chain.blockStake = make(chan struct{})

	first := make(chan error, 1)
	go func() {
		first <- f.orch.ApproveOrStake(context.Background(), "5")
	}()

	require.Eventually(t, func() bool {
		return f.orch.State() == StateStaking
	}, time.Second, 5*time.Millisecond)

	err := f.orch.ApproveOrStake(context.Background(), "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, stakeerr.ErrAlreadyInProgress)

	// The rejected call performed zero chain interactions.
	f.chain.mu.Lock()
	stakeCalls := f.chain.stakeCalls
	f.chain.mu.Unlock()
	assert.Equal(t, 1, stakeCalls)

	close(f.chain.blockStake)
	require.NoError(t, <-first)
	assert.Equal(t, StateIdle, f.orch.State())
}

func TestApproveOrStake_NoSession(t *testing.T) {
	t.Parallel()
	f := newFixture(Options{})
	f.orch.Unbind()

	err := f.orch.ApproveOrStake(context.Background(), "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, stakeerr.ErrNotReady)
	assert.Equal(t, 0, f.allowance.checkCalls)
	assert.Equal(t, 0, f.balances.refreshCalls)
}

func TestApproveOrStake_CheckFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(Options{})
	f.allowance.checkErr = stakeerr.ErrRead

	err := f.orch.ApproveOrStake(context.Background(), "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, stakeerr.ErrRead)

	assert.Equal(t, StateIdle, f.orch.State())
	assert.Equal(t, []string{"approval"}, f.sink.failures)
	// The post-action resync still runs.
	assert.Equal(t, 1, f.balances.refreshCalls)
}

func TestApproveOrStake_ApprovalRejectedByUser(t *testing.T) {
	t.Parallel()
	f := newFixture(Options{})
	f.allowance.needsApproval = true
	f.allowance.approveErr = stakeerr.ErrUserRejected

	err := f.orch.ApproveOrStake(context.Background(), "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, stakeerr.ErrUserRejected)

	assert.Equal(t, StateIdle, f.orch.State())
	assert.Equal(t, []string{"approval"}, f.sink.failures)
	assert.Equal(t, 0, f.sink.approvals)
	assert.Equal(t, 1, f.balances.refreshCalls)
}

func TestApproveOrStake_StakeReverted(t *testing.T) {
	t.Parallel()
	f := newFixture(Options{})
	f.chain.stakeErr = stakeerr.ErrTransactionReverted

	err := f.orch.ApproveOrStake(context.Background(), "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, stakeerr.ErrTransactionReverted)

	assert.Equal(t, StateIdle, f.orch.State())
	assert.Equal(t, []string{"staking"}, f.sink.failures)
	assert.Empty(t, f.sink.stakes)
	assert.Equal(t, 1, f.balances.refreshCalls)
}

func TestApproveOrStake_InvalidAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount string
	}{
		{name: "not a number", amount: "five"},
		{name: "zero", amount: "0"},
		{name: "zero point zero", amount: "0.0"},
		{name: "negative", amount: "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(Options{})

			err := f.orch.ApproveOrStake(context.Background(), tt.amount)
			require.Error(t, err)
			assert.ErrorIs(t, err, stakeerr.ErrInvalidAmount)

			// An invalid amount never reaches submission.
			assert.Equal(t, 0, f.chain.stakeCalls)
			assert.Equal(t, StateIdle, f.orch.State())
			assert.Empty(t, f.sink.stakes)
		})
	}
}

func TestUnstake_Succeeds(t *testing.T) {
	t.Parallel()
	f := newFixture(pastUnlock())
	f.balances.staked = oneToken()

	err := f.orch.Unstake(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.chain.withdrawCalls)
	assert.Equal(t, 1, f.sink.unstakes)
	assert.Equal(t, 1, f.balances.refreshCalls)
	assert.Equal(t, StateIdle, f.orch.State())
}

func TestUnstake_BeforeUnlock(t *testing.T) {
	t.Parallel()
	f := newFixture(beforeUnlock())
	// Staked balance is irrelevant; the time guard fires first.
	f.balances.staked = oneToken()

	err := f.orch.Unstake(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, stakeerr.ErrNotEligible)
	assert.Equal(t, 0, f.chain.withdrawCalls)
	assert.Equal(t, 0, f.balances.refreshCalls)
}

func TestUnstake_NothingStaked(t *testing.T) {
	t.Parallel()
	f := newFixture(pastUnlock())

	err := f.orch.Unstake(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, stakeerr.ErrNotEligible)
	assert.Equal(t, 0, f.chain.withdrawCalls)
}

func TestUnstake_NoSession(t *testing.T) {
	t.Parallel()
	f := newFixture(pastUnlock())
	f.orch.Unbind()

	err := f.orch.Unstake(context.Background())
	assert.ErrorIs(t, err, stakeerr.ErrNotReady)
}

func TestUnstake_WithdrawFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(pastUnlock())
	f.balances.staked = oneToken()
	f.chain.withdrawErr = stakeerr.ErrProvider

	err := f.orch.Unstake(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, stakeerr.ErrProvider)

	assert.Equal(t, StateIdle, f.orch.State())
	assert.Equal(t, []string{"unstaking"}, f.sink.failures)
	assert.Equal(t, 0, f.sink.unstakes)
	assert.Equal(t, 1, f.balances.refreshCalls)
}

func TestFreshSessionTwoStepFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(Options{})
	f.allowance.needsApproval = true

	// First invocation approves only.
	require.NoError(t, f.orch.ApproveOrStake(context.Background(), "5"))
	assert.Equal(t, 1, f.allowance.approveCalls)
	assert.Equal(t, 0, f.chain.stakeCalls)
	assert.Equal(t, StateIdle, f.orch.State())
	assert.False(t, f.allowance.needsApproval)

	// Second invocation stakes.
	require.NoError(t, f.orch.ApproveOrStake(context.Background(), "5"))
	assert.Equal(t, 1, f.allowance.approveCalls)
	assert.Equal(t, 1, f.chain.stakeCalls)
	assert.Equal(t, StateIdle, f.orch.State())

	assert.Equal(t, 1, f.sink.approvals)
	assert.Equal(t, []string{"5"}, f.sink.stakes)
	assert.Empty(t, f.sink.failures)
}

func TestApproveOrStake_ChecksBeforeDeciding(t *testing.T) {
	t.Parallel()
	f := newFixture(Options{})
	release := make(chan struct{})
	f.allowance.blockCheck = release

	first := make(chan error, 1)
	go func() {
		first <- f.orch.ApproveOrStake(context.Background(), "5")
	}()

	// While the allowance read is in flight the orchestrator is checking,
	// not yet committed to either branch, and already rejects overlap.
	require.Eventually(t, func() bool {
		return f.orch.State() == StateChecking
	}, time.Second, 5*time.Millisecond)

	err := f.orch.ApproveOrStake(context.Background(), "1")
	assert.ErrorIs(t, err, stakeerr.ErrAlreadyInProgress)

	close(release)
	require.NoError(t, <-first)
	assert.Equal(t, StateIdle, f.orch.State())
}

func TestStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "checking", StateChecking.String())
	assert.Equal(t, "approving", StateApproving.String())
	assert.Equal(t, "staking", StateStaking.String())
	assert.Equal(t, "unstaking", StateUnstaking.String())
	assert.Equal(t, "unknown", State(99).String())
}
