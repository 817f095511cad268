package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMnemonic is the standard BIP39 test vector phrase.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDerivationPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "m/44'/60'/0'/0/0", DerivationPath(0, 0))
	assert.Equal(t, "m/44'/60'/2'/0/7", DerivationPath(2, 7))
}

func TestDeriveKey_KnownVector(t *testing.T) {
	t.Parallel()
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)

	key, err := DeriveKey(seed, 0, 0)
	require.NoError(t, err)

	// Well-known first address of the BIP39 test vector at m/44'/60'/0'/0/0.
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
		AddressFromKey(key).Hex())
}

func TestDeriveKey_IndexesDiffer(t *testing.T) {
	t.Parallel()
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)

	key0, err := DeriveKey(seed, 0, 0)
	require.NoError(t, err)
	key1, err := DeriveKey(seed, 0, 1)
	require.NoError(t, err)

	assert.NotEqual(t, AddressFromKey(key0), AddressFromKey(key1))
}

func TestDeriveKey_PassphraseChangesKeys(t *testing.T) {
	t.Parallel()
	plain, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	secured, err := MnemonicToSeed(testMnemonic, "passphrase")
	require.NoError(t, err)

	keyPlain, err := DeriveKey(plain, 0, 0)
	require.NoError(t, err)
	keySecured, err := DeriveKey(secured, 0, 0)
	require.NoError(t, err)

	assert.NotEqual(t, AddressFromKey(keyPlain), AddressFromKey(keySecured))
}

func TestZeroBytes(t *testing.T) {
	t.Parallel()
	data := []byte{1, 2, 3, 4}
	ZeroBytes(data)
	assert.Equal(t, []byte{0, 0, 0, 0}, data)
}
