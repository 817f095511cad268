package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/turkyfun/stakectl/internal/chain"
	"github.com/turkyfun/stakectl/internal/countdown"
	"github.com/turkyfun/stakectl/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// statusWatch keeps re-rendering the countdowns until interrupted.
	statusWatch bool
)

// statusCmd shows the session, balances, approval state, and countdowns.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show staking status",
	Long: `Show the active wallet, staked and reward balances, approval state, and
the countdowns to the staking window close and the unlock date.

With --watch, the countdowns tick every second and balances refresh in the
background until interrupted.`,
	Example: `  stakectl status
  stakectl status -o json
  stakectl status --watch`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// StatusResult is the status command's JSON payload.
type StatusResult struct {
	Address       string `json:"address"`
	State         string `json:"state"`
	NeedsApproval bool   `json:"needs_approval"`
	Staked        string `json:"staked"`
	Reward        string `json:"reward"`
	StakingClose  string `json:"staking_close"`
	Unlock        string `json:"unlock"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	// Watch mode runs until interrupted, not until a read deadline.
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if statusWatch {
		base := cmd.Context()
		if base == nil {
			base = context.Background()
		}
		ctx, cancel = context.WithCancel(base)
	} else {
		ctx, cancel = contextWithTimeout(cmd, readTimeout)
	}
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !statusWatch {
		return printStatus(ctx, a)
	}
	return watchStatus(ctx, a)
}

// printStatus renders one status snapshot.
func printStatus(ctx context.Context, a *app) error {
	state, err := a.allowances.Check(ctx, a.sess.Address)
	if err != nil {
		return err
	}

	snap := a.balances.Last()
	now := time.Now()

	result := StatusResult{
		Address:       a.sess.Address.Hex(),
		State:         a.orch.State().String(),
		NeedsApproval: state.NeedsApproval,
		Staked:        chain.FormatTokenAmount(snap.Staked),
		Reward:        chain.FormatTokenAmount(snap.Reward),
		StakingClose:  countdown.Until(a.cfg.StakingCloseAt(), now).String(),
		Unlock:        countdown.Until(a.cfg.UnlockAt(), now).String(),
	}

	// JSON carries full precision; the table trims to two decimals.
	if formatter.IsJSON() {
		return formatter.Print(result)
	}

	table := output.NewTable("FIELD", "VALUE")
	table.AddRow("wallet", output.ShortAddress(result.Address))
	table.AddRow("state", result.State)
	if result.NeedsApproval {
		table.AddRow("approval", "required before staking")
	} else {
		table.AddRow("approval", "granted")
	}
	table.AddRow("staked", chain.FormatTokenAmountFixed(snap.Staked))
	table.AddRow("reward", chain.FormatTokenAmountFixed(snap.Reward))
	table.AddRow("staking closes in", result.StakingClose)
	table.AddRow("unlocks in", result.Unlock)

	return table.Render(formatter.Writer())
}

// watchStatus re-renders a one-line status every second. Two countdowns run
// independently; balances refresh on the background polling cadence.
func watchStatus(ctx context.Context, a *app) error {
	output.Info(os.Stderr, "watching status - press Ctrl+C to stop")

	var (
		closeCh  = make(chan countdown.Remaining, 1)
		unlockCh = make(chan countdown.Remaining, 1)
	)

	push := func(ch chan countdown.Remaining) func(countdown.Remaining) {
		return func(r countdown.Remaining) {
			select {
			case ch <- r:
			default:
			}
		}
	}

	go countdown.Run(ctx, a.cfg.StakingCloseAt(), push(closeCh))
	go countdown.Run(ctx, a.cfg.UnlockAt(), push(unlockCh))

	closeLeft := countdown.Until(a.cfg.StakingCloseAt(), time.Now())
	unlockLeft := countdown.Until(a.cfg.UnlockAt(), time.Now())

	ticker := time.NewTicker(countdown.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			outln(os.Stdout)
			return nil
		case r := <-closeCh:
			closeLeft = r
		case r := <-unlockCh:
			unlockLeft = r
		case <-ticker.C:
			snap := a.balances.Last()
			out(os.Stdout, "\rstaked %s  reward %s  |  closes in %s  |  unlocks in %s   ",
				chain.FormatTokenAmountFixed(snap.Staked),
				chain.FormatTokenAmountFixed(snap.Reward),
				closeLeft, unlockLeft)
		}
	}
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "keep refreshing until interrupted")
	rootCmd.AddCommand(statusCmd)
}
