package state

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInsufficientFunds is returned when a debit exceeds the stored balance.
	ErrInsufficientFunds = errors.New("state: insufficient funds")
	// ErrBalanceOverflow is returned when a credit would wrap a uint64 balance.
	ErrBalanceOverflow = errors.New("state: balance overflow")
)

var (
	nativeBalancePrefix = []byte("native-balance:")
	tokenBalancePrefix  = []byte("token-balance:")
	tokenSupplyKey      = []byte("token-supply")
)

func (m *Manager) loadUint(key []byte) (uint64, error) {
	var value uint64
	if _, err := m.KVGet(key, &value); err != nil {
		return 0, err
	}
	return value, nil
}

// NativeBalance returns the native-unit balance held by addr.
func (m *Manager) NativeBalance(addr [20]byte) (uint64, error) {
	return m.loadUint(prefixedKey(nativeBalancePrefix, addr))
}

// SetNativeBalance overwrites the native-unit balance held by addr.
func (m *Manager) SetNativeBalance(addr [20]byte, amount uint64) error {
	return m.KVPut(prefixedKey(nativeBalancePrefix, addr), amount)
}

// MoveNative debits from and credits to in one step. A zero amount is a no-op.
func (m *Manager) MoveNative(from, to [20]byte, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return m.move(nativeBalancePrefix, from, to, amount)
}

// TokenBalance returns the reward-token balance held by a token account.
func (m *Manager) TokenBalance(account [20]byte) (uint64, error) {
	return m.loadUint(prefixedKey(tokenBalancePrefix, account))
}

// MoveTokens transfers reward tokens between token accounts.
func (m *Manager) MoveTokens(from, to [20]byte, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return m.move(tokenBalancePrefix, from, to, amount)
}

// MintTokens credits account and grows the recorded supply.
func (m *Manager) MintTokens(account [20]byte, amount uint64) error {
	if amount == 0 {
		return nil
	}
	supply, err := m.TokenSupply()
	if err != nil {
		return err
	}
	if supply > math.MaxUint64-amount {
		return fmt.Errorf("%w: token supply", ErrBalanceOverflow)
	}
	key := prefixedKey(tokenBalancePrefix, account)
	balance, err := m.loadUint(key)
	if err != nil {
		return err
	}
	if balance > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	if err := m.KVPut(key, balance+amount); err != nil {
		return err
	}
	return m.KVPut(tokenSupplyKey, supply+amount)
}

// TokenSupply returns the total number of reward tokens minted.
func (m *Manager) TokenSupply() (uint64, error) {
	return m.loadUint(tokenSupplyKey)
}

func (m *Manager) move(prefix []byte, from, to [20]byte, amount uint64) error {
	fromKey := prefixedKey(prefix, from)
	fromBalance, err := m.loadUint(fromKey)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, fromBalance, amount)
	}
	if from == to {
		return nil
	}
	toKey := prefixedKey(prefix, to)
	toBalance, err := m.loadUint(toKey)
	if err != nil {
		return err
	}
	if toBalance > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	if err := m.KVPut(fromKey, fromBalance-amount); err != nil {
		return err
	}
	return m.KVPut(toKey, toBalance+amount)
}
