package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressRoundTrip(t *testing.T) {
	var raw [AddressLength]byte
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	encoded := FundAddress(raw).String()
	require.True(t, strings.HasPrefix(encoded, "fund1"))

	decoded, err := DecodeAddress(encoded)
	require.NoError(t, err)
	require.Equal(t, raw, decoded.Bytes())
	require.Equal(t, FundPrefix, decoded.Prefix())
}

func TestDecodeAddressAcceptsHex(t *testing.T) {
	raw, err := ParseIdentity("0x0102030405060708090a0b0c0d0e0f1011121314")
	require.NoError(t, err)
	require.Equal(t, byte(0x01), raw[0])
	require.Equal(t, byte(0x14), raw[19])

	_, err = ParseIdentity("0x0102")
	require.Error(t, err)
	_, err = ParseIdentity("")
	require.Error(t, err)
}

func TestGeneratedKeyHasStableAddress(t *testing.T) {
	key, err := GeneratePrivateKey()
	require.NoError(t, err)
	restored, err := PrivateKeyFromBytes(key.Bytes())
	require.NoError(t, err)
	require.Equal(t, key.PubKey().Address().String(), restored.PubKey().Address().String())
}
