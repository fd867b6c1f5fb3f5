package cart

import "sync"

// Persister stores cart lines durably, keyed by session id. Implementations
// must return nil lines (not an error) for sessions they have never seen.
type Persister interface {
	Load(sessionID string) ([]Line, error)
	Save(sessionID string, lines []Line) error
	Delete(sessionID string) error
}

// MemoryPersister keeps carts in memory. It backs tests and serves as the
// fallback when durable persistence is unavailable.
type MemoryPersister struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{carts: make(map[string][]Line)}
}

func (m *MemoryPersister) Load(sessionID string) ([]Line, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lines, ok := m.carts[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out, nil
}

func (m *MemoryPersister) Save(sessionID string, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]Line, len(lines))
	copy(stored, lines)
	m.carts[sessionID] = stored
	return nil
}

func (m *MemoryPersister) Delete(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}
