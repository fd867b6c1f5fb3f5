package order

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Sink is the external order collection: append-mostly, with status updates
// guarded optimistically by the expected prior status. The DynamoDB store
// implements it for real traffic; MemorySink backs tests.
type Sink interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	// ListByStatus returns orders with the given status, newest first.
	// StatusPending also matches orders written without a status field.
	ListByStatus(ctx context.Context, status Status) ([]*Order, error)
	// UpdateStatus advances id from expected to target, stamping at. It
	// returns ErrStatusConflict when the order is no longer in expected.
	UpdateStatus(ctx context.Context, id string, expected, target Status, at time.Time) (*Order, error)
	// DeleteAll removes every order, best effort: a partial failure leaves
	// the remainder in place with no rollback.
	DeleteAll(ctx context.Context) (int, error)
}

// MemorySink is an in-memory Sink for tests and local development.
type MemorySink struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

func NewMemorySink() *MemorySink {
	return &MemorySink{orders: make(map[string]*Order)}
}

func (m *MemorySink) Create(ctx context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *o
	m.orders[o.ID] = &clone
	return nil
}

func (m *MemorySink) Get(ctx context.Context, id string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (m *MemorySink) ListByStatus(ctx context.Context, status Status) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Order, 0)
	for _, o := range m.orders {
		s := o.Status
		if s == "" {
			s = StatusPending
		}
		if s == status {
			clone := *o
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemorySink) UpdateStatus(ctx context.Context, id string, expected, target Status, at time.Time) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	current := o.Status
	if current == "" {
		current = StatusPending
	}
	if current != expected {
		return nil, ErrStatusConflict
	}
	if !CanTransition(current, target) {
		return nil, TransitionError(current, target)
	}
	o.Status = target
	switch target {
	case StatusConfirmed:
		o.ConfirmedAt = &at
	case StatusDelivered:
		o.DeliveredAt = &at
	}
	clone := *o
	return &clone, nil
}

func (m *MemorySink) DeleteAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.orders)
	m.orders = make(map[string]*Order)
	return n, nil
}
