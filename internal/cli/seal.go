package cli

import (
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/turkyfun/stakectl/internal/output"
	"github.com/turkyfun/stakectl/internal/wallet"
	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// sealCmd encrypts the mnemonic file at rest.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sealCmd = &cobra.Command{
	Use:   "seal",
	Short: "Encrypt the mnemonic file with a passphrase",
	Long: `Encrypt the mnemonic file so the phrase is never stored in plaintext.

An existing plaintext mnemonic file is encrypted in place; without one, the
phrase is prompted for. Commands that need the signing key ask for the
passphrase to unseal it.`,
	Example: `  stakectl seal`,
	Args:    cobra.NoArgs,
	RunE:    runSeal,
}

func runSeal(_ *cobra.Command, _ []string) error {
	path := expandHome(cfg.Wallet.MnemonicFile)

	mnemonic, err := sealSource(path)
	if err != nil {
		return err
	}
	if err := wallet.ValidateMnemonic(mnemonic); err != nil {
		return err
	}

	passphrase, err := promptNewPassphrase()
	if err != nil {
		return err
	}

	sealed, err := wallet.SealMnemonic(mnemonic, passphrase)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, sealed, 0o600); err != nil {
		return stakeerr.Wrap(stakeerr.ErrGeneral, "writing mnemonic file: %v", err)
	}

	output.Successf(os.Stdout, "Mnemonic sealed at %s", path)
	return nil
}

// sealSource reads the plaintext phrase to seal: the existing mnemonic
// file when present, an interactive prompt otherwise. An already sealed
// file is rejected.
func sealSource(path string) (string, error) {
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
		return promptMnemonic()
	}
	defer wallet.ZeroBytes(data)

	if wallet.IsSealed(data) {
		return "", stakeerr.WithSuggestion(
			stakeerr.ErrInvalidInput,
			"mnemonic file is already sealed",
		)
	}
	return wallet.NormalizeMnemonic(string(data)), nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(sealCmd)
}
