package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Feed keeps the current catalog snapshot warm and notifies subscribers when
// it changes. The external service is polled; subscribers only see whole
// snapshots, so the storefront never depends on the shape of the change
// stream itself.
type Feed struct {
	source Source
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot []Item
	digest   [32]byte

	subMu sync.Mutex
	subs  []chan []Item
}

func NewFeed(source Source, logger *zap.Logger) *Feed {
	return &Feed{source: source, logger: logger}
}

// Refresh fetches the catalog once and notifies subscribers on change.
func (f *Feed) Refresh(ctx context.Context) error {
	items, err := f.source.List(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	digest := sha256.Sum256(raw)

	f.mu.Lock()
	changed := digest != f.digest
	if changed {
		f.snapshot = items
		f.digest = digest
	}
	f.mu.Unlock()

	if changed {
		f.notify(items)
	}
	return nil
}

// Run polls the source at the given interval until the context is cancelled.
func (f *Feed) Run(ctx context.Context, interval time.Duration) {
	if err := f.Refresh(ctx); err != nil {
		f.logger.Warn("initial catalog refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.Refresh(ctx); err != nil {
				f.logger.Warn("catalog refresh failed", zap.Error(err))
			}
		}
	}
}

// Snapshot returns the current catalog snapshot.
func (f *Feed) Snapshot() []Item {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Item, len(f.snapshot))
	copy(out, f.snapshot)
	return out
}

// Get returns a single item from the snapshot or ErrNotFound.
func (f *Feed) Get(id string) (Item, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, it := range f.snapshot {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

// Subscribe returns a channel that receives each new snapshot. The channel
// is buffered; a slow subscriber drops snapshots instead of blocking the
// feed.
func (f *Feed) Subscribe() <-chan []Item {
	ch := make(chan []Item, 1)
	f.subMu.Lock()
	f.subs = append(f.subs, ch)
	f.subMu.Unlock()
	return ch
}

func (f *Feed) notify(items []Item) {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- items:
		default:
		}
	}
}
