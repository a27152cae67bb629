package journal

import (
	"fmt"
	"sync"
)

// MemoryStore is an in-memory journal. When maxEntries is positive it is
// a ring buffer: once full, each new entry overwrites the oldest.
// Data is lost when the process exits.
type MemoryStore struct {
	mu         sync.RWMutex
	slots      []Entry
	byID       map[string]uint64 // entry ID to sequence number
	next       uint64            // sequence number of the next entry
	size       int
	maxEntries int
	closed     bool
}

// NewMemoryStore creates an in-memory journal holding at most maxEntries
// entries. A maxEntries of 0 means unbounded.
func NewMemoryStore(maxEntries int) *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]uint64),
		maxEntries: maxEntries,
	}
}

// slot maps a sequence number to its index in slots.
func (m *MemoryStore) slot(seq uint64) int {
	if m.maxEntries > 0 {
		return int(seq % uint64(m.maxEntries))
	}
	return int(seq)
}

// Record implements Store.
func (m *MemoryStore) Record(e Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	e = prepare(e)
	if _, exists := m.byID[e.ID]; exists {
		return Entry{}, fmt.Errorf("record entry: duplicate id %s", e.ID)
	}

	if m.maxEntries > 0 && m.size == m.maxEntries {
		oldest := m.next - uint64(m.size)
		delete(m.byID, m.slots[m.slot(oldest)].ID)
		m.size--
	}

	// Slots only grow until the buffer first fills.
	if i := m.slot(m.next); i == len(m.slots) {
		m.slots = append(m.slots, e)
	} else {
		m.slots[i] = e
	}
	m.byID[e.ID] = m.next
	m.next++
	m.size++
	return e, nil
}

// Get implements Store.
func (m *MemoryStore) Get(id string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	seq, ok := m.byID[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return m.slots[m.slot(seq)], nil
}

// List implements Store.
func (m *MemoryStore) List(f Filter) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	out := make([]Entry, 0)
	for i := 1; i <= m.size; i++ {
		e := m.slots[m.slot(m.next-uint64(i))]
		if !f.matches(e) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// Count implements Store.
func (m *MemoryStore) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	return m.size, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.slots = nil
	m.byID = nil
	m.size = 0
	return nil
}
