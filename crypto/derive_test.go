package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveAddressIsDeterministic(t *testing.T) {
	owner := []byte{0x01, 0x02}
	first := DeriveAddress("fundraise_platform", owner)
	second := DeriveAddress("fundraise_platform", owner)
	require.Equal(t, first, second)

	require.NotEqual(t, first, DeriveAddress("top_ten_contributors", owner))
	require.NotEqual(t, DeriveAddress("ns", []byte("ab"), []byte("c")), DeriveAddress("ns", []byte("a"), []byte("bc")))
}
