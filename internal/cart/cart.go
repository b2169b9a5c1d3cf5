// Package cart holds the local shopping cart: line items keyed by product id
// with quantities clamped to [MinQty, MaxQty].
package cart

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	MinQty = 1
	MaxQty = 99

	FreeShippingOver = 200.0
	ShippingFee      = 10.0
)

// Item is one cart line.
type Item struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Qty   int     `json:"qty"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() float64 {
	return i.Price * float64(i.Qty)
}

// Cart is an ordered list of items. The zero value is an empty cart.
type Cart struct {
	Items []Item `json:"items"`
}

// ClampQty bounds q to [MinQty, MaxQty].
func ClampQty(q int) int {
	if q < MinQty {
		return MinQty
	}
	if q > MaxQty {
		return MaxQty
	}
	return q
}

// ParseQty reads a quantity typed by a visitor. Non-digits are ignored and an
// empty or zero value becomes 1.
func ParseQty(s string) int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, s)
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return MinQty
	}
	if len(digits) > 3 {
		return MaxQty
	}
	n, _ := strconv.Atoi(digits)
	return ClampQty(n)
}

func (c *Cart) index(id int) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add merges qty into an existing line or appends a new one. Items without a
// positive id are ignored.
func (c *Cart) Add(item Item, qty int) {
	if item.ID <= 0 {
		return
	}
	qty = ClampQty(qty)
	if i := c.index(item.ID); i >= 0 {
		c.Items[i].Qty = ClampQty(c.Items[i].Qty + qty)
		return
	}
	item.Qty = qty
	c.Items = append(c.Items, item)
}

// AddManyIfEmpty seeds an empty cart; a cart with items is left alone.
func (c *Cart) AddManyIfEmpty(items []Item) {
	if len(c.Items) > 0 {
		return
	}
	for _, it := range items {
		if it.Qty == 0 {
			it.Qty = 1
		}
		c.Add(it, it.Qty)
	}
}

// SetQty sets the quantity of an existing line. Unknown ids are ignored.
func (c *Cart) SetQty(id, qty int) {
	if i := c.index(id); i >= 0 {
		c.Items[i].Qty = ClampQty(qty)
	}
}

func (c *Cart) Inc(id int) {
	if i := c.index(id); i >= 0 {
		c.SetQty(id, c.Items[i].Qty+1)
	}
}

// Dec lowers the quantity by one and holds at MinQty.
func (c *Cart) Dec(id int) {
	if i := c.index(id); i >= 0 {
		c.SetQty(id, c.Items[i].Qty-1)
	}
}

// Remove deletes the line for id.
func (c *Cart) Remove(id int) {
	out := c.Items[:0]
	for _, it := range c.Items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	c.Items = out
}

// Subtract takes ordered lines out of the cart. A line whose quantity does not
// exceed the ordered quantity is removed; a larger line keeps the remainder.
func (c *Cart) Subtract(ordered []Item) {
	for _, o := range ordered {
		i := c.index(o.ID)
		if i < 0 {
			continue
		}
		if c.Items[i].Qty <= o.Qty {
			c.Remove(o.ID)
			continue
		}
		c.Items[i].Qty -= o.Qty
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Count is the sum of quantities.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Qty
	}
	return n
}

// Find returns the line for id.
func (c *Cart) Find(id int) (Item, bool) {
	if i := c.index(id); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// Totals are derived from the items and never stored.
type Totals struct {
	Subtotal float64
	Shipping float64
	Total    float64
}

// Totals applies the cart page shipping rule: a flat fee up to
// FreeShippingOver, free above it, nothing for an empty cart.
func (c *Cart) Totals() Totals {
	var t Totals
	for _, it := range c.Items {
		t.Subtotal += it.LineTotal()
	}
	if !c.Empty() && t.Subtotal <= FreeShippingOver {
		t.Shipping = ShippingFee
	}
	t.Total = t.Subtotal + t.Shipping
	return t
}
