// Package memory implements the store repositories on mutex-guarded maps. Data lives only as
// long as the process.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"admissions-platform/internal/store"
)

var now = func() time.Time { return time.Now().UTC() }

// table is a map of rows guarded by a RWMutex. Rows are cloned on the way in and out so callers
// never share slices with the stored copy.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]T
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{rows: make(map[string]T), clone: clone}
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(row), true
}

func (t *table[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, t.clone(row))
	}
	return out
}

// write runs fn with the rows map under the write lock.
func (t *table[T]) write(fn func(rows map[string]T) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.rows)
}

func (t *table[T]) insert(id string, row T) error {
	return t.write(func(rows map[string]T) error {
		if _, exists := rows[id]; exists {
			return store.ErrConflict
		}
		rows[id] = t.clone(row)
		return nil
	})
}

func (t *table[T]) replace(id string, row T) error {
	return t.write(func(rows map[string]T) error {
		if _, exists := rows[id]; !exists {
			return store.ErrNotFound
		}
		rows[id] = t.clone(row)
		return nil
	})
}

func (t *table[T]) upsert(id string, row T) {
	_ = t.write(func(rows map[string]T) error {
		rows[id] = t.clone(row)
		return nil
	})
}

func (t *table[T]) remove(id string) error {
	return t.write(func(rows map[string]T) error {
		if _, exists := rows[id]; !exists {
			return store.ErrNotFound
		}
		delete(rows, id)
		return nil
	})
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// New returns an empty in-memory store.
func New() *store.Store {
	return &store.Store{
		Users:        newUsers(),
		Profiles:     newProfiles(),
		Colleges:     newColleges(),
		Scholarships: newScholarships(),
		Mentors:      newMentors(),
		Bookings:     newBookings(),
		ActionPlans:  newActionPlans(),
		AgentConfigs: newAgentConfigs(),
		Backend:      "memory",
	}
}

// NewSeeded returns an in-memory store holding the demo catalog.
func NewSeeded() *store.Store {
	s := New()
	seed(s)
	return s
}
