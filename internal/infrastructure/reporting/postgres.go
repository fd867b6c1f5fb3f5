// Package reporting keeps Postgres read models of orders, projected from
// the event stream, for the admin console's exports and summaries.
package reporting

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
)

// OrderRow is the flattened order read model.
type OrderRow struct {
	ID          string
	OrderNumber string
	Status      string
	Customer    string
	Email       string
	Phone       string
	Address     string
	Payment     string
	Items       []cart.Line
	Total       decimal.Decimal
	PlacedAt    time.Time
}

// Store wraps the reporting database.
type Store struct {
	db *sql.DB
}

// Connect opens the reporting database and verifies the connection.
func Connect(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// EnsureSchema creates the read model table if missing.
func (s *Store) EnsureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS read_orders (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL,
			status TEXT NOT NULL,
			customer TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			address TEXT NOT NULL,
			payment TEXT NOT NULL,
			items JSONB NOT NULL,
			total TEXT NOT NULL,
			placed_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure read_orders schema: %w", err)
	}
	return nil
}

// Upsert writes the current state of an order into the read model.
func (s *Store) Upsert(o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO read_orders (id, order_number, status, customer, email, phone, address, payment, items, total, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			customer = EXCLUDED.customer,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			payment = EXCLUDED.payment,
			items = EXCLUDED.items,
			total = EXCLUDED.total`,
		o.ID,
		o.OrderNumber,
		string(o.Status),
		o.Shipping.FullName(),
		o.Shipping.Email,
		o.Shipping.Phone,
		fmt.Sprintf("%s, %s, %s", o.Shipping.Address, o.Shipping.City, o.Shipping.Zip),
		o.Shipping.Payment,
		items,
		o.Total.String(),
		o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert order row: %w", err)
	}
	return nil
}

// SetStatus updates just the status of an existing row.
func (s *Store) SetStatus(id string, status order.Status) error {
	_, err := s.db.Exec(`UPDATE read_orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update order row status: %w", err)
	}
	return nil
}

// ListByStatus returns order rows with the given status, newest first.
// An empty status returns everything.
func (s *Store) ListByStatus(status order.Status) ([]OrderRow, error) {
	query := `SELECT id, order_number, status, customer, email, phone, address, payment, items, total, placed_at
		FROM read_orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY placed_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list order rows: %w", err)
	}
	defer rows.Close()

	var out []OrderRow
	for rows.Next() {
		var row OrderRow
		var items []byte
		var total string
		if err := rows.Scan(&row.ID, &row.OrderNumber, &row.Status, &row.Customer,
			&row.Email, &row.Phone, &row.Address, &row.Payment, &items, &total, &row.PlacedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		if err := json.Unmarshal(items, &row.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order row items: %w", err)
		}
		row.Total, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse order row total: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountByStatus returns how many orders sit in each status.
func (s *Store) CountByStatus() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM read_orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count order rows: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan order count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// DeleteAll clears the read model, mirroring the admin bulk delete.
func (s *Store) DeleteAll() error {
	_, err := s.db.Exec(`DELETE FROM read_orders`)
	if err != nil {
		return fmt.Errorf("delete order rows: %w", err)
	}
	return nil
}
