package session

import (
	"encoding/json"
	"errors"
	"sync"
)

// ErrCorrupted marks a persisted record that exists but cannot be decoded.
// Stores clear corrupted records; plain read failures (the storage being
// temporarily unreadable) leave the record in place.
var ErrCorrupted = errors.New("session record corrupted")

// Record is the persisted session state: the auth token and the serialized
// user object, always written and cleared together. A zero Record means no
// session.
type Record struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// IsZero reports whether the record carries no session.
func (r Record) IsZero() bool {
	return r.Token == "" && len(r.User) == 0
}

// Persistence is the storage port behind a Store. Implementations must treat
// the record as a single unit; Save replaces the whole record and Clear
// removes it entirely.
type Persistence interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
}

// MemoryStore is an in-process Persistence, used in tests and to simulate
// several tabs sharing one storage area.
type MemoryStore struct {
	mu     sync.Mutex
	record Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record, nil
}

func (m *MemoryStore) Save(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = r
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = Record{}
	return nil
}
