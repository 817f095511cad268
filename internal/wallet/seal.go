package wallet

import (
	"bytes"
	"io"
	"strings"

	"filippo.io/age"

	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// sealHeader starts every age v1 file. IsSealed keys off it so plaintext
// mnemonic files from older setups keep working.
const sealHeader = "age-encryption.org/v1"

// IsSealed reports whether data is an age-encrypted mnemonic file.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(sealHeader))
}

// SealMnemonic encrypts a mnemonic phrase with a passphrase-derived key.
// The phrase is normalized first so sealing and later validation agree.
func SealMnemonic(mnemonic, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, stakeerr.Wrap(stakeerr.ErrGeneral, "creating scrypt recipient: %v", err)
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, stakeerr.Wrap(stakeerr.ErrGeneral, "initializing encryption: %v", err)
	}
	if _, err := io.WriteString(w, NormalizeMnemonic(mnemonic)); err != nil {
		return nil, stakeerr.Wrap(stakeerr.ErrGeneral, "writing encrypted data: %v", err)
	}
	if err := w.Close(); err != nil {
		return nil, stakeerr.Wrap(stakeerr.ErrGeneral, "finalizing encryption: %v", err)
	}

	return buf.Bytes(), nil
}

// OpenMnemonic decrypts a sealed mnemonic file. A wrong passphrase
// surfaces as a rejected error so the CLI can prompt again.
func OpenMnemonic(data []byte, passphrase string) (string, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return "", stakeerr.Wrap(stakeerr.ErrGeneral, "creating scrypt identity: %v", err)
	}

	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return "", stakeerr.WithSuggestion(
			stakeerr.ErrWrongPassphrase,
			"check the passphrase used to seal the mnemonic",
		)
	}

	phrase, err := io.ReadAll(r)
	if err != nil {
		return "", stakeerr.Wrap(stakeerr.ErrGeneral, "reading decrypted data: %v", err)
	}
	defer ZeroBytes(phrase)

	return strings.TrimSpace(string(phrase)), nil
}
