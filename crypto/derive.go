package crypto

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// DeriveAddress returns the deterministic record address for a namespace and
// its owning keys. The same inputs always map to the same 20 bytes, which is
// what gives every namespace+key pair exactly one record.
func DeriveAddress(namespace string, parts ...[]byte) [AddressLength]byte {
	buf := make([]byte, 0, len(namespace)+len(parts)*AddressLength)
	buf = append(buf, namespace...)
	for _, part := range parts {
		// Length prefix keeps ("ab","c") and ("a","bc") apart.
		buf = append(buf, byte(len(part)))
		buf = append(buf, part...)
	}
	digest := crypto.Keccak256(buf)
	var out [AddressLength]byte
	copy(out[:], digest[len(digest)-AddressLength:])
	return out
}
