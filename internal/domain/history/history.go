// Package history keeps the short list of descriptors a user analyzed most
// recently.
package history

import (
	"context"
	"strings"
	"sync"
)

// DefaultSize is the number of descriptors retained when none is configured.
const DefaultSize = 10

// Store persists the ordered list, most recent first.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, entries []string) error
}

// List is a bounded, deduplicated, most-recent-first descriptor list.
// It is safe for concurrent use.
type List struct {
	mu      sync.Mutex
	size    int
	entries []string
	store   Store
}

// NewList returns an empty list bounded to size entries and backed by store.
// A nil store keeps the list in memory only.
func NewList(size int, store Store) *List {
	if size <= 0 {
		size = DefaultSize
	}
	return &List{size: size, store: store}
}

// Restore replaces the in-memory entries with the persisted ones.
func (l *List) Restore(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	entries, err := l.store.Load(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.entries = trim(dedupe(entries), l.size)
	l.mu.Unlock()
	return nil
}

// Add moves descriptor to the front, evicting the oldest entry once the list
// is full. Blank descriptors are ignored.
func (l *List) Add(ctx context.Context, descriptor string) error {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return nil
	}

	l.mu.Lock()
	next := make([]string, 0, len(l.entries)+1)
	next = append(next, descriptor)
	for _, e := range l.entries {
		if e != descriptor {
			next = append(next, e)
		}
	}
	l.entries = trim(next, l.size)
	snapshot := append([]string(nil), l.entries...)
	l.mu.Unlock()

	if l.store == nil {
		return nil
	}
	return l.store.Save(ctx, snapshot)
}

// Entries returns a copy of the list, most recent first.
func (l *List) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// Clear empties the list and the store.
func (l *List) Clear(ctx context.Context) error {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
	if l.store == nil {
		return nil
	}
	return l.store.Save(ctx, nil)
}

// Size returns the configured bound.
func (l *List) Size() int { return l.size }

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, e := range in {
		if _, ok := seen[e]; ok || e == "" {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func trim(in []string, size int) []string {
	if len(in) > size {
		return in[:size]
	}
	return in
}

// MemoryStore is a Store that keeps the list in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries []string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries...), nil
}

func (m *MemoryStore) Save(_ context.Context, entries []string) error {
	m.mu.Lock()
	m.entries = append([]string(nil), entries...)
	m.mu.Unlock()
	return nil
}

//Personal.AI order the ending
