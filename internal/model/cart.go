package model

import (
	"sync"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	Product  *Product
	Quantity int
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart maps products (by identity) to positive quantities and keeps the
// order in which products were first added.
type Cart struct {
	mu    sync.Mutex
	order []*Product
	qty   map[*Product]int
}

func NewCart() *Cart {
	return &Cart{qty: make(map[*Product]int)}
}

// Add merges quantity into the entry for p.
func (c *Cart) Add(p *Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.qty[p]; !ok {
		c.order = append(c.order, p)
	}
	c.qty[p] += quantity
	return nil
}

// Remove decrements the entry for p, deleting it once the held quantity is
// not above the requested amount. Absent products are ignored.
func (c *Cart) Remove(p *Product, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	held, ok := c.qty[p]
	if !ok {
		return
	}
	if held > quantity {
		c.qty[p] = held - quantity
		return
	}
	delete(c.qty, p)
	for i, q := range c.order {
		if q == p {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) Quantity(p *Product) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.qty[p]
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order) == 0
}

func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemsLocked()
}

func (c *Cart) TotalPrice() decimal.Decimal {
	return sumItems(c.Items())
}

// Checkout returns the current items and empties the cart in one step, so a
// given set of items is handed out at most once.
func (c *Cart) Checkout() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.itemsLocked()
	c.clearLocked()
	return items
}

func (c *Cart) itemsLocked() []CartItem {
	items := make([]CartItem, 0, len(c.order))
	for _, p := range c.order {
		items = append(items, CartItem{Product: p, Quantity: c.qty[p]})
	}
	return items
}

func (c *Cart) clearLocked() {
	c.order = nil
	c.qty = make(map[*Product]int)
}

func sumItems(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
