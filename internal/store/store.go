// Package store persists per-browser client state (identity, cart contents,
// in-progress checkout data) between page loads. Entries are scoped by the
// browser scope identifier carried in the signed scope cookie.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Well-known entry keys. Every component owns exactly one key per scope.
const (
	KeyPrincipal       = "user"
	KeyCartItems       = "cartItems"
	KeyShippingAddress = "shippingAddress"
	KeyPaymentMethod   = "paymentMethod"
	KeyCheckoutStep    = "checkoutStep"
	KeyTheme           = "theme"
)

// ErrNotFound is returned by Get when no entry exists for the scope/key pair.
var ErrNotFound = errors.New("store: entry not found")

// Store is the persistent key-value adapter backing session, cart, and
// checkout state. Implementations must treat scope/key pairs as independent
// entries; there is no cross-key transaction.
type Store interface {
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Put(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
	// DeleteScope removes every entry belonging to the scope.
	DeleteScope(ctx context.Context, scope string) error
}

// ReadJSON decodes the entry at scope/key into out. A missing entry reports
// false with a nil error. A corrupt entry is erased and likewise reported as
// absent: persisted client state is best-effort and a decode failure must
// never surface as an error to the caller.
func ReadJSON(ctx context.Context, s Store, scope, key string, out any) (bool, error) {
	raw, err := s.Get(ctx, scope, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		_ = s.Delete(ctx, scope, key)
		return false, nil
	}
	return true, nil
}

// WriteJSON marshals value and stores it at scope/key.
func WriteJSON(ctx context.Context, s Store, scope, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Put(ctx, scope, key, raw)
}
