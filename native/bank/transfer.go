package bank

import (
	"errors"
	"fmt"
	"math"

	"fundchain/core/state"
)

var (
	// ErrInsufficientFunds is returned when the sender cannot cover a transfer.
	ErrInsufficientFunds = errors.New("bank: insufficient funds")
	// ErrBalanceOverflow is returned when a credit would overflow the recipient.
	ErrBalanceOverflow = errors.New("bank: balance overflow")
)

type balanceStore interface {
	NativeBalance(addr [20]byte) (uint64, error)
	SetNativeBalance(addr [20]byte, amount uint64) error
	MoveNative(from, to [20]byte, amount uint64) error
}

// Ledger is the native-currency transfer primitive bound to one state transition.
type Ledger struct {
	store balanceStore
}

// NewLedger binds a ledger to the supplied balance store.
func NewLedger(store balanceStore) *Ledger {
	return &Ledger{store: store}
}

// Transfer debits from and credits to. A zero amount is a no-op.
func (l *Ledger) Transfer(from, to [20]byte, amount uint64) error {
	if l == nil || l.store == nil {
		return fmt.Errorf("bank: state manager required")
	}
	if err := l.store.MoveNative(from, to, amount); err != nil {
		return translate(err)
	}
	return nil
}

// Balance returns the native balance held by addr.
func (l *Ledger) Balance(addr [20]byte) (uint64, error) {
	if l == nil || l.store == nil {
		return 0, fmt.Errorf("bank: state manager required")
	}
	return l.store.NativeBalance(addr)
}

// Credit mints native units into addr. Used by development faucets.
func (l *Ledger) Credit(addr [20]byte, amount uint64) error {
	if l == nil || l.store == nil {
		return fmt.Errorf("bank: state manager required")
	}
	balance, err := l.store.NativeBalance(addr)
	if err != nil {
		return err
	}
	if balance > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	return l.store.SetNativeBalance(addr, balance+amount)
}

func translate(err error) error {
	switch {
	case errors.Is(err, state.ErrInsufficientFunds):
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	case errors.Is(err, state.ErrBalanceOverflow):
		return ErrBalanceOverflow
	default:
		return err
	}
}
