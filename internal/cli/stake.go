package cli

import (
	"github.com/spf13/cobra"
)

// stakeCmd submits one unit of the approve-then-stake flow.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var stakeCmd = &cobra.Command{
	Use:   "stake [amount]",
	Short: "Approve or stake tokens",
	Long: `Approve the staking contract or stake tokens, one step per invocation.

If the contract's current allowance is below the required minimum, this
submits an unlimited approval and stops; run the command again to stake.
If the allowance is already sufficient, the given amount (in whole tokens,
decimals allowed) is staked. Each transaction waits for on-chain
confirmation before the command returns.`,
	Example: `  stakectl stake          # approve, or stake the default 1 token
  stakectl stake 5        # stake 5 tokens
  stakectl stake 0.5 -y   # no confirmation prompt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStake,
}

func runStake(cmd *cobra.Command, args []string) error {
	amount := "1"
	if len(args) > 0 {
		amount = args[0]
	}

	ctx, cancel := contextWithTimeout(cmd, txTimeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.orch.ApproveOrStake(ctx, amount); err != nil {
		return err
	}

	return printStatus(ctx, a)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(stakeCmd)
}
