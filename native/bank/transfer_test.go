package bank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"fundchain/core/state"
	"fundchain/storage"
)

func TestLedgerTransfer(t *testing.T) {
	manager := state.NewManager(storage.NewMemDB())
	ledger := NewLedger(manager)
	alice, bob := [20]byte{1}, [20]byte{2}

	require.NoError(t, ledger.Credit(alice, 100))
	require.NoError(t, ledger.Transfer(alice, bob, 40))
	require.NoError(t, ledger.Transfer(alice, bob, 0))

	balance, err := ledger.Balance(alice)
	require.NoError(t, err)
	require.Equal(t, uint64(60), balance)
	balance, err = ledger.Balance(bob)
	require.NoError(t, err)
	require.Equal(t, uint64(40), balance)

	err = ledger.Transfer(bob, alice, 41)
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestLedgerOverflow(t *testing.T) {
	manager := state.NewManager(storage.NewMemDB())
	ledger := NewLedger(manager)
	alice, bob := [20]byte{1}, [20]byte{2}

	require.NoError(t, ledger.Credit(alice, math.MaxUint64))
	require.ErrorIs(t, ledger.Credit(alice, 1), ErrBalanceOverflow)
	require.NoError(t, ledger.Credit(bob, 1))
	require.ErrorIs(t, ledger.Transfer(bob, alice, 1), ErrBalanceOverflow)
}

func TestLedgerRequiresStore(t *testing.T) {
	var ledger *Ledger
	require.Error(t, ledger.Transfer([20]byte{}, [20]byte{}, 1))
}
