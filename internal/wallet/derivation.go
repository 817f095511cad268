package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
)

// Ethereum BIP44 path components: m/44'/60'/account'/0/index.
const (
	purposeBIP44 = 44
	coinTypeETH  = 60
)

// DerivationPath returns the full BIP44 derivation path for an account and
// address index.
func DerivationPath(account, index uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/0/%d", coinTypeETH, account, index)
}

// DeriveKey derives the ECDSA signing key at m/44'/60'/account'/0/index from
// a BIP39 seed. The caller owns the key for the session lifetime.
func DeriveKey(seed []byte, account, index uint32) (*ecdsa.PrivateKey, error) {
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("creating master key: %w", err)
	}

	// m/44'
	purposeKey, err := masterKey.NewChildKey(bip32.FirstHardenedChild + purposeBIP44)
	if err != nil {
		return nil, fmt.Errorf("deriving purpose key: %w", err)
	}

	// m/44'/60'
	coinTypeKey, err := purposeKey.NewChildKey(bip32.FirstHardenedChild + coinTypeETH)
	if err != nil {
		return nil, fmt.Errorf("deriving coin type key: %w", err)
	}

	// m/44'/60'/account'
	accountKey, err := coinTypeKey.NewChildKey(bip32.FirstHardenedChild + account)
	if err != nil {
		return nil, fmt.Errorf("deriving account key: %w", err)
	}

	// m/44'/60'/account'/0 (external chain)
	changeKey, err := accountKey.NewChildKey(0)
	if err != nil {
		return nil, fmt.Errorf("deriving change key: %w", err)
	}

	// m/44'/60'/account'/0/index
	indexKey, err := changeKey.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("deriving index key: %w", err)
	}

	key, err := crypto.ToECDSA(indexKey.Key)
	if err != nil {
		return nil, fmt.Errorf("converting to ECDSA key: %w", err)
	}

	return key, nil
}

// AddressFromKey returns the EIP-55 checksummed address for a signing key.
func AddressFromKey(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

// ZeroBytes zeros out a byte slice.
func ZeroBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
