// Package cart implements the in-progress sale: a session-local, ordered
// list of product lines bounded by READY stock. It never touches storage;
// commit side effects belong to the checkout engine.
package cart

import (
	"errors"

	"github.com/adibratta/my-pos/internal/domain"
)

// ErrOutOfStock is returned when a READY product with zero stock is added.
var ErrOutOfStock = errors.New("out of stock")

// Line pairs a product snapshot with the requested quantity.
type Line struct {
	Product  domain.Product
	Quantity int
}

func (l Line) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{lines: make([]Line, 0, 8)}
}

// AddItem inserts a new line with quantity 1, or bumps an existing line by
// one. For READY products the quantity silently caps at available stock, and
// adding a zero-stock product fails with ErrOutOfStock.
func (c *Cart) AddItem(product domain.Product) error {
	if product.Type == domain.TypeReady && product.Stock <= 0 {
		return ErrOutOfStock
	}

	for i, line := range c.lines {
		if line.Product.ID != product.ID {
			continue
		}
		if product.Type == domain.TypeReady && line.Quantity+1 > product.Stock {
			// Capped, not an error: the line stays at the ceiling.
			return nil
		}
		c.lines[i].Quantity++
		return nil
	}

	c.lines = append(c.lines, Line{Product: product, Quantity: 1})
	return nil
}

// ChangeQuantity adjusts a line by delta. The result is clamped to stay
// at least 1 (RemoveItem deletes lines) and, for READY products, at most the
// available stock; a request past either bound leaves the line unchanged.
func (c *Cart) ChangeQuantity(productID string, delta int) {
	for i, line := range c.lines {
		if line.Product.ID != productID {
			continue
		}
		next := line.Quantity + delta
		if next < 1 {
			return
		}
		if line.Product.Type == domain.TypeReady && next > line.Product.Stock {
			return
		}
		c.lines[i].Quantity = next
		return
	}
}

func (c *Cart) RemoveItem(productID string) {
	for i, line := range c.lines {
		if line.Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

// HasPreOrder reports whether any line is a pre-order item, which decides
// whether checkout must collect customer details.
func (c *Cart) HasPreOrder() bool {
	for _, line := range c.lines {
		if line.Product.Type == domain.TypePreOrder {
			return true
		}
	}
	return false
}

// ItemCount is the sum of quantities, used for UI badges.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}
