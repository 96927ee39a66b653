package secret

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceReadsEnvironment(t *testing.T) {
	t.Setenv("FUND_TEST_SECRET", "hunter2")
	src := NewSource("FUND_TEST_SECRET", "gateway secret")
	value, err := src.Get()
	require.NoError(t, err)
	require.Equal(t, "hunter2", value)

	t.Setenv("FUND_TEST_SECRET", "changed")
	value, err = src.Get()
	require.NoError(t, err)
	require.Equal(t, "hunter2", value, "value is cached")
}

func TestSourceRejectsBlankEnvironment(t *testing.T) {
	t.Setenv("FUND_TEST_SECRET", "   ")
	_, err := NewSource("FUND_TEST_SECRET", "gateway secret").Get()
	require.ErrorContains(t, err, "set but empty")
}
