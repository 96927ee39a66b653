package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddressPrefix is the human-readable part of a bech32 encoded identity.
type AddressPrefix string

// FundPrefix is used for every identity and record address on the ledger.
const FundPrefix AddressPrefix = "fund"

// AddressLength is the size in bytes of an identity.
const AddressLength = 20

// Address represents a 20-byte identity with a specific prefix.
type Address struct {
	prefix AddressPrefix
	bytes  [AddressLength]byte
}

func NewAddress(prefix AddressPrefix, b [AddressLength]byte) Address {
	return Address{prefix: prefix, bytes: b}
}

// FundAddress wraps raw bytes with the default prefix.
func FundAddress(b [AddressLength]byte) Address {
	return NewAddress(FundPrefix, b)
}

func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.bytes[:], 8, 5, true)
	if err != nil {
		// ConvertBits with padding cannot fail on a fixed 20 byte input.
		return "0x" + hex.EncodeToString(a.bytes[:])
	}
	encoded, err := bech32.Encode(string(a.prefix), conv)
	if err != nil {
		return "0x" + hex.EncodeToString(a.bytes[:])
	}
	return encoded
}

// Bytes returns the raw identity.
func (a Address) Bytes() [AddressLength]byte {
	return a.bytes
}

// Prefix returns the human-readable prefix associated with the address.
func (a Address) Prefix() AddressPrefix {
	return a.prefix
}

// DecodeAddress parses either a bech32 string or a 0x prefixed hex string.
func DecodeAddress(addrStr string) (Address, error) {
	trimmed := strings.TrimSpace(addrStr)
	if trimmed == "" {
		return Address{}, fmt.Errorf("address required")
	}
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		raw, err := hex.DecodeString(trimmed[2:])
		if err != nil {
			return Address{}, fmt.Errorf("invalid hex address: %w", err)
		}
		if len(raw) != AddressLength {
			return Address{}, fmt.Errorf("address must be %d bytes, got %d", AddressLength, len(raw))
		}
		var out [AddressLength]byte
		copy(out[:], raw)
		return FundAddress(out), nil
	}
	prefix, decoded, err := bech32.Decode(trimmed)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	if len(conv) != AddressLength {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", AddressLength, len(conv))
	}
	var out [AddressLength]byte
	copy(out[:], conv)
	return NewAddress(AddressPrefix(prefix), out), nil
}

// ParseIdentity decodes an address string into the raw bytes the ledger uses.
func ParseIdentity(addrStr string) ([AddressLength]byte, error) {
	addr, err := DecodeAddress(addrStr)
	if err != nil {
		return [AddressLength]byte{}, err
	}
	return addr.Bytes(), nil
}

// FormatIdentity renders raw bytes with the default prefix.
func FormatIdentity(b [AddressLength]byte) string {
	return FundAddress(b).String()
}

// --- Key Management ---

type PrivateKey struct {
	*ecdsa.PrivateKey
}

type PublicKey struct {
	*ecdsa.PublicKey
}

func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the byte representation of the private key.
func (k *PrivateKey) Bytes() []byte {
	return crypto.FromECDSA(k.PrivateKey)
}

func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{&k.PrivateKey.PublicKey}
}

func (k *PublicKey) Address() Address {
	return FundAddress(crypto.PubkeyToAddress(*k.PublicKey))
}

func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}
