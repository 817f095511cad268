package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/turkyfun/stakectl/internal/chain"
	"github.com/turkyfun/stakectl/internal/wallet"
	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// out is a helper for CLI output that ignores write errors (standard pattern for CLI tools).
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...interface{}) {
	fmt.Fprintln(w, args...)
}

// confirmTransaction asks before submitting a transaction. Declining aborts
// the flow before any chain call. The --yes flag skips the prompt.
func confirmTransaction(action string, amount *big.Int) bool {
	if assumeYes {
		return true
	}

	if amount != nil {
		out(os.Stderr, "\nAbout to %s (%s tokens). Proceed? [y/N]: ", action, chain.FormatTokenAmount(amount))
	} else {
		out(os.Stderr, "\nAbout to %s. Proceed? [y/N]: ", action)
	}

	var response string
	_, err := fmt.Scanln(&response)
	if err != nil {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// promptHidden reads a line with terminal echo disabled.
// The caller is responsible for zeroing the returned bytes after use.
func promptHidden(prompt string) ([]byte, error) {
	out(os.Stderr, "%s", prompt)

	input, err := term.ReadPassword(syscall.Stdin)
	outln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return input, nil
}

// promptPassphrase asks for the passphrase protecting a sealed mnemonic
// file.
func promptPassphrase() (string, error) {
	passphrase, err := promptHidden("Enter mnemonic passphrase: ")
	if err != nil {
		return "", err
	}
	defer wallet.ZeroBytes(passphrase)

	return string(passphrase), nil
}

// promptNewPassphrase asks for a new sealing passphrase with confirmation.
func promptNewPassphrase() (string, error) {
	passphrase, err := promptHidden("Enter new passphrase: ")
	if err != nil {
		return "", err
	}
	defer wallet.ZeroBytes(passphrase)

	if len(passphrase) < 8 {
		return "", stakeerr.WithSuggestion(
			stakeerr.ErrInvalidInput,
			"passphrase must be at least 8 characters",
		)
	}

	confirm, err := promptHidden("Confirm passphrase: ")
	if err != nil {
		return "", err
	}
	defer wallet.ZeroBytes(confirm)

	if string(passphrase) != string(confirm) {
		return "", stakeerr.WithSuggestion(
			stakeerr.ErrInvalidInput,
			"passphrases do not match",
		)
	}

	return string(passphrase), nil
}

// promptMnemonic reads a mnemonic phrase with hidden input.
func promptMnemonic() (string, error) {
	out(os.Stderr, "Enter mnemonic phrase: ")

	phrase, err := term.ReadPassword(syscall.Stdin)
	outln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return "", fmt.Errorf("reading mnemonic: %w", err)
	}
	defer wallet.ZeroBytes(phrase)

	return wallet.NormalizeMnemonic(string(phrase)), nil
}
