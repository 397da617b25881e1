package wallet

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey is returned when a private key cannot be parsed.
var ErrInvalidKey = errors.New("invalid private key")

// Signer signs EVM transactions with a key held in the keystore.
type Signer struct {
	address string
	keyRef  string
	ks      KeystoreBackend
}

// NewSigner creates a signer for a stored key.
func NewSigner(address, keyRef string, ks KeystoreBackend) *Signer {
	return &Signer{address: address, keyRef: keyRef, ks: ks}
}

// SignTx signs an EVM transaction and returns the raw signed bytes.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error) {
	hexKey, err := s.ks.Retrieve(s.keyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}

	privKey, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	signer := types.NewLondonSigner(chainID)
	signed, err := types.SignTx(tx, signer, privKey)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling signed tx: %w", err)
	}

	return raw, nil
}

// Address returns the signer's address.
func (s *Signer) Address() string {
	return s.address
}

// GenerateKey creates a fresh private key, returning its hex encoding and the
// derived address.
func GenerateKey() (hexKey, address string, err error) {
	privKey, err := crypto.GenerateKey()
	if err != nil {
		return "", "", fmt.Errorf("generating key: %w", err)
	}
	hexKey = fmt.Sprintf("%x", crypto.FromECDSA(privKey))
	return hexKey, crypto.PubkeyToAddress(privKey.PublicKey).Hex(), nil
}

// AddressFromKey derives the EVM address for a hex private key.
func AddressFromKey(hexKey string) (string, error) {
	privKey, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return crypto.PubkeyToAddress(privKey.PublicKey).Hex(), nil
}
