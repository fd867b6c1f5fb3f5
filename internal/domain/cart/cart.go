// Package cart implements the session shopping cart: an insertion-ordered
// list of catalog item snapshots with quantities, persisted across visits.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/domain/catalog"
)

// Line is one catalog item in the cart. The item fields are a snapshot taken
// when the line was first added: prices shown in the cart reflect what the
// shopper saw at add time, not live catalog prices.
type Line struct {
	Item     catalog.Item `json:"item"`
	Quantity int          `json:"quantity"`
}

// Amount returns discounted price times quantity for this line.
func (l Line) Amount() decimal.Decimal {
	return l.Item.DiscountedPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered collection of lines. At most one line exists per item
// id, and every line has quantity >= 1. The zero value is an empty cart.
type Cart struct {
	lines []Line
}

// New builds a cart from previously persisted lines.
func New(lines []Line) *Cart {
	c := &Cart{}
	c.lines = append(c.lines, lines...)
	return c
}

// Add puts the item in the cart. If a line with the same id exists its
// quantity is incremented and the original snapshot is kept; otherwise a new
// line with quantity 1 is appended.
func (c *Cart) Add(item catalog.Item) {
	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: 1})
}

// Remove drops the line with the given item id. Removing an absent id is a
// no-op.
func (c *Cart) Remove(id string) {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Decrement lowers the line's quantity by one, removing the line when the
// quantity would reach zero. A zero-quantity line is never kept.
func (c *Cart) Decrement(id string) {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			if c.lines[i].Quantity <= 1 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			} else {
				c.lines[i].Quantity--
			}
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Quantity returns the quantity for an item id, zero when absent.
func (c *Cart) Quantity(id string) int {
	for _, l := range c.lines {
		if l.Item.ID == id {
			return l.Quantity
		}
	}
	return 0
}

// Subtotal is the derived cart total: the sum of discounted price times
// quantity over all lines. It is recomputed on every call, never stored.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Amount())
	}
	return total
}
