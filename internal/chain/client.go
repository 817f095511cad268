package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// approveGasLimit is the fixed gas ceiling hint for approval transactions.
const approveGasLimit = 100000

// addressRegex validates Ethereum addresses.
var addressRegex = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

// maxUint256 is the infinite-approval allowance value.
//
//nolint:gochecknoglobals // Numeric constant, big.Int has no const form
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ConfirmFunc asks the user to confirm a transaction before submission.
// Returning false rejects the transaction without touching the chain.
// A nil ConfirmFunc auto-confirms.
type ConfirmFunc func(action string, amount *big.Int) bool

// Options contains configuration for the chain client.
type Options struct {
	RPCURL         string
	TokenAddress   string
	StakingAddress string
	ChainID        *big.Int     // optional, detected from the RPC when nil
	Limiter        *RateLimiter // optional, defaults to DefaultRateLimiter
	Confirm        ConfirmFunc  // optional, nil auto-confirms
}

// Client wraps the RPC connection and the two bound contract handles:
// the ERC-20 token (approve, allowance, balanceOf, decimals) and the
// staking contract (mintAndStake, withdrawStake, stakedBalances, balanceOf).
type Client struct {
	rpcURL      string
	tokenAddr   common.Address
	stakingAddr common.Address
	limiter     *RateLimiter
	confirm     ConfirmFunc

	mu      sync.Mutex
	eth     *ethclient.Client
	chainID *big.Int
	token   *bind.BoundContract
	staking *bind.BoundContract

	// Signing state bound from the active wallet session.
	key     *ecdsa.PrivateKey
	keyAddr common.Address
}

// NewClient creates a new chain client. The RPC connection is established
// lazily on first use so construction never blocks on the network.
func NewClient(opts Options) (*Client, error) {
	if opts.RPCURL == "" {
		return nil, stakeerr.WithSuggestion(
			stakeerr.ErrConfigInvalid,
			"set network.rpc in the config file or STAKECTL_RPC",
		)
	}
	if !addressRegex.MatchString(opts.TokenAddress) {
		return nil, stakeerr.WithDetails(stakeerr.ErrInvalidAddress, map[string]string{
			"field": "token_address", "value": opts.TokenAddress,
		})
	}
	if !addressRegex.MatchString(opts.StakingAddress) {
		return nil, stakeerr.WithDetails(stakeerr.ErrInvalidAddress, map[string]string{
			"field": "staking_address", "value": opts.StakingAddress,
		})
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = DefaultRateLimiter()
	}

	return &Client{
		rpcURL:      opts.RPCURL,
		tokenAddr:   common.HexToAddress(opts.TokenAddress),
		stakingAddr: common.HexToAddress(opts.StakingAddress),
		chainID:     opts.ChainID,
		limiter:     limiter,
		confirm:     opts.Confirm,
	}, nil
}

// ValidateAddress checks if an address is a well-formed Ethereum address.
func ValidateAddress(address string) error {
	if !addressRegex.MatchString(address) {
		return stakeerr.WithDetails(stakeerr.ErrInvalidAddress, map[string]string{
			"address": address,
		})
	}
	return nil
}

// Bind attaches a signing key from the active wallet session. Subsequent
// mutating calls sign with this key.
func (c *Client) Bind(key *ecdsa.PrivateKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.keyAddr = crypto.PubkeyToAddress(key.PublicKey)
}

// Unbind clears the signing key when the session ends.
func (c *Client) Unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = nil
	c.keyAddr = common.Address{}
}

// StakingAddress returns the staking contract address (the approval spender).
func (c *Client) StakingAddress() common.Address {
	return c.stakingAddr
}

// Allowance reads the token allowance granted by owner to the staking
// contract.
func (c *Client) Allowance(ctx context.Context, owner common.Address) (*big.Int, error) {
	return c.callUint256(ctx, contractToken, "allowance", owner, c.stakingAddr)
}

// TokenBalance reads the owner's token balance.
func (c *Client) TokenBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	return c.callUint256(ctx, contractToken, "balanceOf", owner)
}

// Decimals reads the token's declared decimal precision.
func (c *Client) Decimals(ctx context.Context) (uint8, error) {
	if err := c.connect(ctx); err != nil {
		return 0, err
	}
	if err := c.limiter.Wait(ctx, c.rpcURL); err != nil {
		return 0, err
	}

	var out []interface{}
	if err := c.token.Call(&bind.CallOpts{Context: ctx}, &out, "decimals"); err != nil {
		return 0, c.classifyReadError(err, "decimals")
	}
	if len(out) == 0 {
		return 0, stakeerr.Wrap(stakeerr.ErrProvider, "decimals returned no data")
	}
	dec, ok := out[0].(uint8)
	if !ok {
		return 0, stakeerr.Wrap(stakeerr.ErrProvider, "decimals returned unexpected type")
	}
	return dec, nil
}

// StakedBalance reads the owner's staked principal from the staking contract.
func (c *Client) StakedBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	return c.callUint256(ctx, contractStaking, "stakedBalances", owner)
}

// RewardBalance reads the owner's reward-token balance from the staking
// contract's own balance view.
func (c *Client) RewardBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	return c.callUint256(ctx, contractStaking, "balanceOf", owner)
}

// ApproveMax submits an infinite approval (MaxUint256) for the staking
// contract with a fixed gas ceiling hint and awaits on-chain confirmation.
func (c *Client) ApproveMax(ctx context.Context) (*types.Receipt, error) {
	return c.transact(ctx, contractToken, "approve spend", approveGasLimit, nil,
		"approve", c.stakingAddr, maxUint256)
}

// MintAndStake submits the combined mint-and-stake transaction for the given
// base-unit amount and awaits confirmation.
func (c *Client) MintAndStake(ctx context.Context, amount *big.Int) (*types.Receipt, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, stakeerr.ErrInvalidAmount
	}
	return c.transact(ctx, contractStaking, "mint and stake", 0, amount,
		"mintAndStake", amount)
}

// WithdrawStake submits the unstake transaction and awaits confirmation.
func (c *Client) WithdrawStake(ctx context.Context) (*types.Receipt, error) {
	return c.transact(ctx, contractStaking, "withdraw stake", 0, nil,
		"withdrawStake")
}

// Close closes the RPC connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eth != nil {
		c.eth.Close()
		c.eth = nil
	}
	c.token = nil
	c.staking = nil
}

// contract handle selector for the shared call/transact helpers.
type contractKind int

const (
	contractToken contractKind = iota
	contractStaking
)

// callUint256 performs a rate-limited view call returning a single uint256.
func (c *Client) callUint256(ctx context.Context, kind contractKind, method string, params ...interface{}) (*big.Int, error) {
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx, c.rpcURL); err != nil {
		return nil, err
	}

	var out []interface{}
	if err := c.handle(kind).Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, c.classifyReadError(err, method)
	}
	if len(out) == 0 {
		return big.NewInt(0), nil
	}
	val, ok := out[0].(*big.Int)
	if !ok {
		return nil, stakeerr.Wrap(stakeerr.ErrProvider, "%s returned unexpected type", method)
	}
	return val, nil
}

// transact submits a mutating contract call and awaits mining. gasLimit of 0
// defers to the node's estimate. The confirm callback runs before submission;
// a decline maps to the user-rejected error without any chain interaction.
func (c *Client) transact(ctx context.Context, kind contractKind, action string, gasLimit uint64, amount *big.Int, method string, params ...interface{}) (*types.Receipt, error) {
	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	opts, err := c.transactor(ctx)
	if err != nil {
		return nil, err
	}
	opts.GasLimit = gasLimit

	if c.confirm != nil && !c.confirm(action, amount) {
		return nil, stakeerr.WithDetails(stakeerr.ErrUserRejected, map[string]string{
			"action": action,
		})
	}

	if err := c.limiter.Wait(ctx, c.rpcURL); err != nil {
		return nil, err
	}

	tx, err := c.handle(kind).Transact(opts, method, params...)
	if err != nil {
		return nil, classifySubmitError(err, method)
	}

	c.mu.Lock()
	backend := c.eth
	c.mu.Unlock()

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, stakeerr.Wrap(stakeerr.ErrProvider, "awaiting %s confirmation: %v", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, stakeerr.WithDetails(stakeerr.ErrTransactionReverted, map[string]string{
			"method": method,
			"tx":     tx.Hash().Hex(),
		})
	}

	return receipt, nil
}

// transactor builds signing options from the bound session key.
// Fails with the connection error when no wallet session is bound.
func (c *Client) transactor(ctx context.Context) (*bind.TransactOpts, error) {
	c.mu.Lock()
	key := c.key
	chainID := c.chainID
	c.mu.Unlock()

	if key == nil {
		return nil, stakeerr.ErrConnection
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, stakeerr.Wrap(stakeerr.ErrProvider, "building transactor: %v", err)
	}
	opts.Context = ctx
	return opts, nil
}

// handle returns the bound contract for the given kind.
// connect must have succeeded before calling.
func (c *Client) handle(kind contractKind) *bind.BoundContract {
	c.mu.Lock()
	defer c.mu.Unlock()

	if kind == contractToken {
		return c.token
	}
	return c.staking
}

// connect establishes the RPC connection and contract bindings if needed.
// Thread-safe and retryable after transient failures.
func (c *Client) connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eth != nil {
		return nil
	}

	eth, err := ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return stakeerr.Wrap(stakeerr.ErrProvider, "dialing %s: %v", c.rpcURL, err)
	}

	if c.chainID == nil {
		chainID, idErr := eth.ChainID(ctx)
		if idErr != nil {
			eth.Close()
			return stakeerr.Wrap(stakeerr.ErrProvider, "getting chain ID: %v", idErr)
		}
		c.chainID = chainID
	}

	tokenParsed, err := abi.JSON(strings.NewReader(tokenABI))
	if err != nil {
		eth.Close()
		return fmt.Errorf("parsing token ABI: %w", err)
	}
	stakingParsed, err := abi.JSON(strings.NewReader(stakingABI))
	if err != nil {
		eth.Close()
		return fmt.Errorf("parsing staking ABI: %w", err)
	}

	c.eth = eth
	c.token = bind.NewBoundContract(c.tokenAddr, tokenParsed, eth, eth, eth)
	c.staking = bind.NewBoundContract(c.stakingAddr, stakingParsed, eth, eth, eth)
	return nil
}

// classifyReadError maps a view-call failure to the provider error.
func (c *Client) classifyReadError(err error, method string) error {
	if stakeerr.Is(err, context.Canceled) || stakeerr.Is(err, context.DeadlineExceeded) {
		return err
	}
	return stakeerr.Wrap(stakeerr.ErrProvider, "calling %s: %v", method, err)
}

// classifySubmitError distinguishes a revert detected at submission time
// (gas estimation runs the call) from plain RPC failure.
func classifySubmitError(err error, method string) error {
	if strings.Contains(err.Error(), "execution reverted") {
		return stakeerr.WithDetails(stakeerr.ErrTransactionReverted, map[string]string{
			"method": method,
		})
	}
	return stakeerr.Wrap(stakeerr.ErrProvider, "submitting %s: %v", method, err)
}
