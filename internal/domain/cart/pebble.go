package cart

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

// PebblePersister stores carts in a local PebbleDB, the durable equivalent
// of the browser's local storage: carts survive restarts without any server
// round-trip.
type PebblePersister struct {
	db *pebble.DB
}

func NewPebblePersister(dir string) (*PebblePersister, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebblePersister{db: db}, nil
}

func (p *PebblePersister) Close() error { return p.db.Close() }

func (p *PebblePersister) Load(sessionID string) ([]Line, error) {
	val, closer, err := p.db.Get([]byte(sessionID))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()

	var lines []Line
	if err := json.Unmarshal(val, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

func (p *PebblePersister) Save(sessionID string, lines []Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := p.db.Set([]byte(sessionID), raw, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

func (p *PebblePersister) Delete(sessionID string) error {
	if err := p.db.Delete([]byte(sessionID), pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete: %w", err)
	}
	return nil
}
