// Package cart holds the client-side shopping cart: an ordered collection of
// line items keyed by product id, with stock-bounded quantity mutation. All
// operations are synchronous and in-memory-first; the full collection is
// persisted after every mutation so a page reload never loses the cart.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"craftfield.org/atelier-web/internal/platform/faults"
	"craftfield.org/atelier-web/internal/store"
)

var errStoreRequired = errors.New("cart: store is required")

// LineItem is one product/quantity pairing. CountInStock is the stock
// ceiling, snapshotted from backend-reported availability when the item was
// added; Quantity never exceeds it after any mutation.
type LineItem struct {
	ProductID    string          `json:"_id"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"imageUrl"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	CountInStock int             `json:"countInStock"`
}

// Manager owns the cart of one browser scope. It is not safe for concurrent
// use; the single request handling the mutation is the only writer.
type Manager struct {
	store store.Store
	scope string
	items []LineItem
}

// NewManager restores the persisted cart for the scope. Corrupt persisted
// data is erased and treated as an empty cart, never as an error.
func NewManager(ctx context.Context, s store.Store, scope string) (*Manager, error) {
	if s == nil {
		return nil, errStoreRequired
	}
	m := &Manager{store: s, scope: scope}
	var items []LineItem
	if ok, err := store.ReadJSON(ctx, s, scope, store.KeyCartItems, &items); err != nil {
		return nil, err
	} else if ok {
		m.items = sanitize(items)
	}
	return m, nil
}

// sanitize drops unusable persisted lines and re-establishes the quantity
// invariant on whatever survives.
func sanitize(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.CountInStock < 1 || item.Price.IsNegative() {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if item.Quantity > item.CountInStock {
			item.Quantity = item.CountInStock
		}
		out = append(out, item)
	}
	return out
}

// AddItem inserts the item or, when a line with the same product id exists,
// sums the quantities. A request that would push past the stock ceiling is
// rejected in full: the cart stays unchanged and a capacity fault is
// returned. Add never clamps.
func (m *Manager) AddItem(ctx context.Context, item LineItem) error {
	if item.ProductID == "" {
		return faults.Validation("product is required")
	}
	if item.Quantity < 1 {
		return faults.Validation("quantity must be at least 1")
	}
	if item.Price.IsNegative() {
		return faults.Validation("price must not be negative")
	}
	if item.CountInStock < 0 {
		item.CountInStock = 0
	}

	if idx := m.index(item.ProductID); idx >= 0 {
		existing := m.items[idx]
		next := existing.Quantity + item.Quantity
		if next > existing.CountInStock {
			return faults.Capacity(fmt.Sprintf("cannot add more than %d of this item to the cart", existing.CountInStock))
		}
		m.items[idx].Quantity = next
		return m.persist(ctx)
	}

	if item.Quantity > item.CountInStock {
		return faults.Capacity(fmt.Sprintf("cannot add more than %d of this item to the cart", item.CountInStock))
	}
	m.items = append(m.items, item)
	return m.persist(ctx)
}

// UpdateQuantity sets the line's quantity, floored at 1. A value above the
// stock ceiling is clamped down to the ceiling — the mutation still happens —
// and the capacity condition is reported alongside the persisted change.
// Unknown product ids are a no-op.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	idx := m.index(productID)
	if idx < 0 {
		return nil
	}
	if quantity < 1 {
		quantity = 1
	}
	var capacity error
	if ceiling := m.items[idx].CountInStock; quantity > ceiling {
		quantity = ceiling
		capacity = faults.Capacity(fmt.Sprintf("cannot set the quantity to more than %d", ceiling))
	}
	m.items[idx].Quantity = quantity
	if err := m.persist(ctx); err != nil {
		return err
	}
	return capacity
}

// RemoveItem removes the matching line if present; absent ids are a no-op.
func (m *Manager) RemoveItem(ctx context.Context, productID string) error {
	idx := m.index(productID)
	if idx < 0 {
		return nil
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	return m.persist(ctx)
}

// Clear empties the cart unconditionally.
func (m *Manager) Clear(ctx context.Context) error {
	m.items = nil
	return m.store.Delete(ctx, m.scope, store.KeyCartItems)
}

// Items returns a copy of the line items in insertion order.
func (m *Manager) Items() []LineItem {
	out := make([]LineItem, len(m.items))
	copy(out, m.items)
	return out
}

// IsEmpty reports whether the cart holds no lines.
func (m *Manager) IsEmpty() bool { return len(m.items) == 0 }

// TotalPrice sums unit price times quantity over all lines.
func (m *Manager) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range m.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TotalItemCount sums the quantities over all lines.
func (m *Manager) TotalItemCount() int {
	count := 0
	for _, item := range m.items {
		count += item.Quantity
	}
	return count
}

func (m *Manager) index(productID string) int {
	for i, item := range m.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (m *Manager) persist(ctx context.Context) error {
	items := m.items
	if items == nil {
		items = []LineItem{}
	}
	return store.WriteJSON(ctx, m.store, m.scope, store.KeyCartItems, items)
}
