package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

func TestSealMnemonic_RoundTrip(t *testing.T) {
	t.Parallel()

	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	sealed, err := SealMnemonic(mnemonic, "correct horse battery")
	require.NoError(t, err)
	require.True(t, IsSealed(sealed))
	assert.NotContains(t, string(sealed), "abandon")

	opened, err := OpenMnemonic(sealed, "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, mnemonic, opened)
	require.NoError(t, ValidateMnemonic(opened))
}

func TestSealMnemonic_NormalizesPhrase(t *testing.T) {
	t.Parallel()

	sealed, err := SealMnemonic("  Abandon ABANDON  abandon abandon abandon abandon abandon abandon abandon abandon abandon about ", "pw12345678")
	require.NoError(t, err)

	opened, err := OpenMnemonic(sealed, "pw12345678")
	require.NoError(t, err)
	assert.Equal(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", opened)
}

func TestOpenMnemonic_WrongPassphrase(t *testing.T) {
	t.Parallel()

	sealed, err := SealMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "right")
	require.NoError(t, err)

	_, err = OpenMnemonic(sealed, "wrong")
	require.Error(t, err)
	require.ErrorIs(t, err, stakeerr.ErrWrongPassphrase)
}

func TestIsSealed(t *testing.T) {
	t.Parallel()

	assert.False(t, IsSealed(nil))
	assert.False(t, IsSealed([]byte("abandon abandon abandon")))
	assert.True(t, IsSealed([]byte("age-encryption.org/v1\n-> scrypt")))
}
