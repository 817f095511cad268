package cli

import (
	"github.com/spf13/cobra"
)

// unstakeCmd withdraws the full staked position.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var unstakeCmd = &cobra.Command{
	Use:   "unstake",
	Short: "Withdraw the staked position",
	Long: `Withdraw the full staked position after the unlock date.

Unstaking is rejected before the unlock date, or when the last known staked
balance is zero. The withdrawal transaction waits for on-chain confirmation
before the command returns.`,
	Example: `  stakectl unstake
  stakectl unstake -y`,
	Args: cobra.NoArgs,
	RunE: runUnstake,
}

func runUnstake(cmd *cobra.Command, _ []string) error {
	ctx, cancel := contextWithTimeout(cmd, txTimeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.orch.Unstake(ctx); err != nil {
		return err
	}

	return printStatus(ctx, a)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(unstakeCmd)
}
