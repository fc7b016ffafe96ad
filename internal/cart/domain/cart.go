package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type CartEntry struct {
	ProductID int64
	Title     string
	Price     decimal.Decimal
	Image     string
	Quantity  int
}

func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart is an immutable, ordered snapshot of entries. Every mutating method
// returns a new Cart and leaves the receiver untouched.
type Cart struct {
	entries []CartEntry
}

type Stock struct {
	ProductID int64
	Quantity  int
}

type Product struct {
	ID    int64
	Title string
	Price decimal.Decimal
	Image string
}

func EmptyCart() Cart {
	return Cart{}
}

// Restore rebuilds a cart from a persisted snapshot, keeping the stored order.
func Restore(entries []CartEntry) (Cart, error) {
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if e.ProductID <= 0 {
			return Cart{}, fmt.Errorf("%w: invalid product id %d", ErrCorruptSnapshot, e.ProductID)
		}
		if e.Quantity < 1 {
			return Cart{}, fmt.Errorf("%w: product %d has quantity %d", ErrCorruptSnapshot, e.ProductID, e.Quantity)
		}
		if _, dup := seen[e.ProductID]; dup {
			return Cart{}, fmt.Errorf("%w: product %d appears twice", ErrCorruptSnapshot, e.ProductID)
		}
		seen[e.ProductID] = struct{}{}
	}

	return Cart{entries: cloneEntries(entries)}, nil
}

func (c Cart) Entries() []CartEntry {
	return cloneEntries(c.entries)
}

// Len is the number of distinct products.
func (c Cart) Len() int {
	return len(c.entries)
}

func (c Cart) Find(productID int64) (CartEntry, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.entries[i], true
	}
	return CartEntry{}, false
}

func (c Cart) Contains(productID int64) bool {
	return c.indexOf(productID) >= 0
}

func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.entries {
		total = total.Add(e.Subtotal())
	}
	return total
}

func (c Cart) Equal(other Cart) bool {
	if len(c.entries) != len(other.entries) {
		return false
	}
	for i := range c.entries {
		a, b := c.entries[i], other.entries[i]
		if a.ProductID != b.ProductID || a.Title != b.Title || a.Image != b.Image ||
			a.Quantity != b.Quantity || !a.Price.Equal(b.Price) {
			return false
		}
	}
	return true
}

// Increment adds one unit of an entry already in the cart.
func (c Cart) Increment(stock Stock) (Cart, error) {
	i := c.indexOf(stock.ProductID)
	if i < 0 {
		return c, ErrProductNotInCart
	}

	q := c.entries[i].Quantity
	if q >= stock.Quantity {
		return c, fmt.Errorf("%w: product %d has %d in cart, %d available", ErrOutOfStock, stock.ProductID, q, stock.Quantity)
	}

	return c.withQuantity(i, q+1), nil
}

// Append adds a product that is not yet in the cart with quantity 1.
func (c Cart) Append(p Product, stock Stock) (Cart, error) {
	if c.Contains(p.ID) {
		return c, fmt.Errorf("product %d already in cart", p.ID)
	}
	if stock.Quantity < 1 {
		return c, fmt.Errorf("%w: product %d has no stock", ErrOutOfStock, p.ID)
	}

	next := make([]CartEntry, len(c.entries), len(c.entries)+1)
	copy(next, c.entries)
	next = append(next, CartEntry{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  1,
	})

	return Cart{entries: next}, nil
}

func (c Cart) Remove(productID int64) (Cart, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return c, ErrProductNotInCart
	}

	next := make([]CartEntry, 0, len(c.entries)-1)
	next = append(next, c.entries[:i]...)
	next = append(next, c.entries[i+1:]...)

	return Cart{entries: next}, nil
}

func (c Cart) SetQuantity(productID int64, quantity int, stock Stock) (Cart, error) {
	if quantity <= 0 {
		return c, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	i := c.indexOf(productID)
	if i < 0 {
		return c, ErrProductNotInCart
	}

	if stock.Quantity < quantity {
		return c, fmt.Errorf("%w: product %d wants %d, %d available", ErrOutOfStock, productID, quantity, stock.Quantity)
	}

	return c.withQuantity(i, quantity), nil
}

func (c Cart) withQuantity(i, quantity int) Cart {
	next := cloneEntries(c.entries)
	next[i].Quantity = quantity
	return Cart{entries: next}
}

func (c Cart) indexOf(productID int64) int {
	for i, e := range c.entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneEntries(entries []CartEntry) []CartEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]CartEntry, len(entries))
	copy(out, entries)
	return out
}
