package state

import (
	"errors"
	"fmt"
)

// ErrRecordExists is returned when an allocation targets an address that
// already holds a record.
var ErrRecordExists = errors.New("state: record already exists")

var recordAllocationPrefix = []byte("record-alloc:")

type storedAllocation struct {
	Payer [20]byte
	Size  uint64
}

// RecordExists reports whether a record was allocated at addr.
func (m *Manager) RecordExists(addr [20]byte) (bool, error) {
	return m.KVGet(prefixedKey(recordAllocationPrefix, addr), nil)
}

// RecordSize returns the allocated size of the record at addr.
func (m *Manager) RecordSize(addr [20]byte) (uint64, bool, error) {
	var alloc storedAllocation
	ok, err := m.KVGet(prefixedKey(recordAllocationPrefix, addr), &alloc)
	if err != nil || !ok {
		return 0, ok, err
	}
	return alloc.Size, true, nil
}

// AllocateRecord reserves addr for a record of the given fixed size. The payer
// funds the reserve floor, which stays at addr for the record's lifetime.
func (m *Manager) AllocateRecord(payer, addr [20]byte, size uint64) error {
	exists, err := m.RecordExists(addr)
	if err != nil {
		return err
	}
	if exists {
		return ErrRecordExists
	}
	floor := m.rent.MinimumBalance(size)
	if err := m.MoveNative(payer, addr, floor); err != nil {
		return fmt.Errorf("fund reserve: %w", err)
	}
	return m.KVPut(prefixedKey(recordAllocationPrefix, addr), storedAllocation{Payer: payer, Size: size})
}

// MinimumBalance returns the reserve floor for a record of size bytes.
func (m *Manager) MinimumBalance(size uint64) uint64 {
	return m.rent.MinimumBalance(size)
}
