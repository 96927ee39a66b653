package state

import (
	"errors"
	"fmt"
	"sort"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"fundchain/storage"
)

// ErrManagerClosed is returned when a committed or discarded manager is reused.
var ErrManagerClosed = errors.New("state: manager already committed or discarded")

// Manager is a single state transition over the backing database. Reads fall
// through the pending write set to storage; nothing written through the
// manager is visible to other readers until Commit flushes it as one batch.
//
// Manager is not safe for concurrent use.
type Manager struct {
	db      storage.Database
	rent    Rent
	pending map[string]pendingWrite
	closed  bool
}

type pendingWrite struct {
	value   []byte
	deleted bool
}

// NewManager opens a transition over db using the default rent schedule.
func NewManager(db storage.Database) *Manager {
	return NewManagerWithRent(db, DefaultRent())
}

// NewManagerWithRent opens a transition over db using the supplied rent schedule.
func NewManagerWithRent(db storage.Database, rent Rent) *Manager {
	return &Manager{
		db:      db,
		rent:    rent,
		pending: make(map[string]pendingWrite),
	}
}

func kvKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}

func prefixedKey(prefix []byte, addr [20]byte) []byte {
	buf := make([]byte, len(prefix)+len(addr))
	copy(buf, prefix)
	copy(buf[len(prefix):], addr[:])
	return buf
}

func (m *Manager) get(hashed []byte) ([]byte, error) {
	if m.closed {
		return nil, ErrManagerClosed
	}
	if write, ok := m.pending[string(hashed)]; ok {
		if write.deleted {
			return nil, nil
		}
		return write.value, nil
	}
	data, err := m.db.Get(hashed)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (m *Manager) set(hashed []byte, value []byte) error {
	if m.closed {
		return ErrManagerClosed
	}
	m.pending[string(hashed)] = pendingWrite{value: append([]byte(nil), value...)}
	return nil
}

// KVPut stores the provided value under the supplied key using RLP encoding.
// The key is hashed with keccak256 before it reaches storage.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.set(kvKey(key), encoded)
}

// KVGet retrieves the value stored under the supplied key and decodes it into
// the provided destination. The boolean return value indicates whether the key
// existed in state.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	data, err := m.get(kvKey(key))
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// KVDelete removes the value stored under key.
func (m *Manager) KVDelete(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	if m.closed {
		return ErrManagerClosed
	}
	m.pending[string(kvKey(key))] = pendingWrite{deleted: true}
	return nil
}

// Dirty reports how many keys the transition has touched.
func (m *Manager) Dirty() int {
	return len(m.pending)
}

// Rent exposes the reserve schedule used for allocations.
func (m *Manager) Rent() Rent {
	return m.rent
}

// Commit flushes every pending write to storage in a single batch. Keys are
// written in sorted order so identical transitions produce identical batches.
func (m *Manager) Commit() error {
	if m.closed {
		return ErrManagerClosed
	}
	m.closed = true
	if len(m.pending) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m.pending))
	for key := range m.pending {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	batch := m.db.NewBatch()
	for _, key := range keys {
		write := m.pending[key]
		if write.deleted {
			batch.Delete([]byte(key))
			continue
		}
		batch.Put([]byte(key), write.value)
	}
	m.pending = nil
	if err := batch.Write(); err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	return nil
}

// Discard drops every pending write. It is safe to call after Commit.
func (m *Manager) Discard() {
	m.pending = nil
	m.closed = true
}
