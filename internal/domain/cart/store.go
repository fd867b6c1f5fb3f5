package cart

import (
	"sync"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain/catalog"
)

// Store is the session-scoped cart container. Every mutation is written
// through the persister; when persistence fails the session degrades to an
// in-memory cart instead of failing the operation, since a lost cart is
// recoverable by re-adding items.
type Store struct {
	persister Persister
	logger    *zap.Logger

	mu       sync.Mutex
	fallback map[string][]Line // sessions whose persistence has failed
}

func NewStore(persister Persister, logger *zap.Logger) *Store {
	return &Store{
		persister: persister,
		logger:    logger,
		fallback:  make(map[string][]Line),
	}
}

// Get returns the cart for a session, empty if it has never been used.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(sessionID)
}

// Add puts an item in the session's cart and persists the result.
func (s *Store) Add(sessionID string, item catalog.Item) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(sessionID)
	c.Add(item)
	s.save(sessionID, c)
	return c
}

// Remove drops an item line from the session's cart and persists the result.
func (s *Store) Remove(sessionID, itemID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(sessionID)
	c.Remove(itemID)
	s.save(sessionID, c)
	return c
}

// Decrement lowers a line's quantity by one, removing the line at quantity
// one, and persists the result.
func (s *Store) Decrement(sessionID, itemID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(sessionID)
	c.Decrement(itemID)
	s.save(sessionID, c)
	return c
}

// Clear empties the session's cart and persists the empty state.
func (s *Store) Clear(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(sessionID)
	c.Clear()
	s.save(sessionID, c)
	return c
}

// load must be called with the mutex held.
func (s *Store) load(sessionID string) *Cart {
	if lines, ok := s.fallback[sessionID]; ok {
		return New(lines)
	}

	lines, err := s.persister.Load(sessionID)
	if err != nil {
		s.logger.Warn("cart load failed, using in-memory cart",
			zap.String("session", sessionID), zap.Error(err))
		return New(s.fallback[sessionID])
	}
	return New(lines)
}

// save must be called with the mutex held.
func (s *Store) save(sessionID string, c *Cart) {
	lines := c.Lines()

	if _, degraded := s.fallback[sessionID]; degraded {
		s.fallback[sessionID] = lines
		return
	}

	if err := s.persister.Save(sessionID, lines); err != nil {
		s.logger.Warn("cart persist failed, degrading to in-memory cart",
			zap.String("session", sessionID), zap.Error(err))
		s.fallback[sessionID] = lines
	}
}
