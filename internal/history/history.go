// Package history remembers the proxy servers a socks client was pointed at.
package history

import (
	"context"
	"fmt"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/skyfleet/skymanager/internal/storage"
)

// StorageKey is the store key holding the encoded entries.
const StorageKey = "socks-client-history"

// MaxEntries is how many servers are remembered; older ones are dropped.
const MaxEntries = 10

// Entry is one remembered server.
type Entry struct {
	Key             string `json:"key"`
	EnteredManually bool   `json:"entered_manually"`
	Location        string `json:"location,omitempty"`
	Note            string `json:"note,omitempty"`
}

// Book reads and writes the history in a storage.Store.
type Book struct {
	mu    sync.Mutex
	store storage.Store
}

// New returns a Book backed by store.
func New(store storage.Store) *Book {
	return &Book{store: store}
}

// List returns the entries, most recent first.
func (b *Book) List(ctx context.Context) ([]Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(ctx)
}

// Add puts e at the front, replacing any entry with the same key.
func (b *Book) Add(ctx context.Context, e Entry) ([]Entry, error) {
	e.Key = strings.TrimSpace(e.Key)
	if e.Key == "" {
		return nil, fmt.Errorf("history entry needs a key")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	entries, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]Entry, 0, len(entries)+1)
	next = append(next, e)
	for _, old := range entries {
		if old.Key != e.Key {
			next = append(next, old)
		}
	}
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	return next, b.save(ctx, next)
}

// Remove drops the entry for key. Missing keys are not an error.
func (b *Book) Remove(ctx context.Context, key string) ([]Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	next := entries[:0]
	for _, e := range entries {
		if e.Key != key {
			next = append(next, e)
		}
	}
	return next, b.save(ctx, next)
}

// SetNote changes the note of the entry for key.
func (b *Book) SetNote(ctx context.Context, key, note string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, err := b.load(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range entries {
		if entries[i].Key == key {
			entries[i].Note = strings.TrimSpace(note)
			found = true
		}
	}
	if !found {
		return fmt.Errorf("no history entry for %q", key)
	}
	return b.save(ctx, entries)
}

func (b *Book) load(ctx context.Context) ([]Entry, error) {
	raw, ok, err := b.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

func (b *Book) save(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := b.store.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
