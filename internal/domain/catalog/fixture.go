package catalog

import (
	"context"
	"sync"
)

// Fixture is an in-memory catalog used in tests and local development.
// It implements Store.
type Fixture struct {
	mu    sync.RWMutex
	items []Item
}

func NewFixture(items ...Item) *Fixture {
	f := &Fixture{}
	f.items = append(f.items, items...)
	return f
}

func (f *Fixture) List(ctx context.Context) ([]Item, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Item, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *Fixture) Get(ctx context.Context, id string) (Item, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (f *Fixture) Put(ctx context.Context, item Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == item.ID {
			f.items[i] = item
			return nil
		}
	}
	f.items = append(f.items, item)
	return nil
}

func (f *Fixture) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}
