package cli

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/turkyfun/stakectl/internal/chain"
	"github.com/turkyfun/stakectl/internal/config"
	"github.com/turkyfun/stakectl/internal/notify"
	"github.com/turkyfun/stakectl/internal/service/allowance"
	"github.com/turkyfun/stakectl/internal/service/balance"
	"github.com/turkyfun/stakectl/internal/service/staking"
	"github.com/turkyfun/stakectl/internal/session"
	"github.com/turkyfun/stakectl/internal/wallet"
	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// app wires the chain client, session, and services for one command
// invocation. Close tears the session down, which cancels the balance
// polling loop.
type app struct {
	cfg      *config.Config
	client   *chain.Client
	sessions *session.Manager
	sess     *session.Session

	allowances *allowance.Service
	balances   *balance.Service
	orch       *staking.Orchestrator
}

// newApp validates the configuration, derives the signing key, connects the
// session, and performs the initial allowance and balance reads. Missing
// contract addresses are fatal here, before any chain interaction.
func newApp(ctx context.Context) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mnemonic, err := loadMnemonic(cfg)
	if err != nil {
		return nil, err
	}

	seed, err := wallet.MnemonicToSeed(mnemonic, "")
	if err != nil {
		return nil, err
	}
	defer wallet.ZeroBytes(seed)

	key, err := wallet.DeriveKey(seed, cfg.Wallet.Account, cfg.Wallet.Index)
	if err != nil {
		return nil, err
	}

	client, err := chain.NewClient(chain.Options{
		RPCURL:         cfg.Network.RPC,
		TokenAddress:   cfg.Contracts.Token,
		StakingAddress: cfg.Contracts.Staking,
		ChainID:        big.NewInt(cfg.Network.ChainID),
		Confirm:        confirmTransaction,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		client:     client,
		sessions:   session.NewManager(),
		allowances: allowance.New(client, client),
		balances:   balance.New(client, logger),
	}
	a.orch = staking.New(staking.Options{
		Chain:     client,
		Allowance: a.allowances,
		Balances:  a.balances,
		Notify:    notify.NewConsole(nil, nil),
		UnlockAt:  cfg.UnlockAt(),
		Logger:    logger,
	})

	a.sessions.OnConnect(func(s *session.Session) {
		client.Bind(s.Key())
		a.orch.Bind(s.Address)
		go a.balances.Poll(s.Context(), s.Address, cfg.PollInterval())
	})
	a.sessions.OnDisconnect(func(*session.Session) {
		a.orch.Unbind()
		client.Unbind()
	})

	sess, err := a.sessions.Connect(key)
	if err != nil {
		client.Close()
		return nil, err
	}
	a.sess = sess

	// Initial reads, so eligibility guards and status output have a
	// snapshot before the first poll tick lands.
	a.balances.Refresh(ctx, sess.Address)
	if _, err := a.allowances.Check(ctx, sess.Address); err != nil {
		logger.Error("initial allowance check failed: %v", err)
	}

	return a, nil
}

// Close disconnects the session and the RPC client.
func (a *app) Close() {
	a.sessions.Disconnect()
	a.client.Close()
}

// loadMnemonic reads the mnemonic from the configured file, falling back to
// an interactive prompt when the file is absent and stdin is a terminal.
func loadMnemonic(cfg *config.Config) (string, error) {
	path := expandHome(cfg.Wallet.MnemonicFile)

	// #nosec G304 -- mnemonic file path is from validated config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		if !term.IsTerminal(syscall.Stdin) {
			return "", stakeerr.WithSuggestion(stakeerr.WithDetails(stakeerr.ErrConfigNotFound, map[string]string{
				"file": path,
			}), "Write your mnemonic to "+path+" or run interactively")
		}
		prompted, promptErr := promptMnemonic()
		if promptErr != nil {
			return "", promptErr
		}
		if validateErr := wallet.ValidateMnemonic(prompted); validateErr != nil {
			return "", validateErr
		}
		return prompted, nil
	}

	var mnemonic string
	if wallet.IsSealed(data) {
		passphrase, promptErr := promptPassphrase()
		if promptErr != nil {
			return "", promptErr
		}
		mnemonic, err = wallet.OpenMnemonic(data, passphrase)
		if err != nil {
			return "", err
		}
	} else {
		mnemonic = wallet.NormalizeMnemonic(string(data))
	}
	wallet.ZeroBytes(data)

	if err := wallet.ValidateMnemonic(mnemonic); err != nil {
		return "", err
	}
	return mnemonic, nil
}

// expandHome expands a leading ~/ in a path.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
