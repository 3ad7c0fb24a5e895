// Package session holds the authenticated principal of one browser scope and
// persists it across page loads. Login and register talk to the backend; the
// returned principal (including its opaque bearer credential) is the only
// identity state the client keeps.
package session

import (
	"context"
	"errors"
	"strings"

	"craftfield.org/atelier-web/internal/api"
	"craftfield.org/atelier-web/internal/platform/faults"
	"craftfield.org/atelier-web/internal/store"
)

var (
	errStoreRequired = errors.New("session: store is required")
	errAuthRequired  = errors.New("session: auth client is required")
)

// authAPI is the slice of the backend gateway the manager needs.
type authAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (api.Principal, error)
	Register(ctx context.Context, req api.RegisterRequest) (api.Principal, error)
}

// Manager owns the principal of one browser scope.
type Manager struct {
	store     store.Store
	auth      authAPI
	scope     string
	principal *api.Principal
}

// NewManager restores any persisted principal for the scope. A corrupt
// persisted entry is erased and yields "no identity", never an error.
func NewManager(ctx context.Context, s store.Store, auth authAPI, scope string) (*Manager, error) {
	if s == nil {
		return nil, errStoreRequired
	}
	if auth == nil {
		return nil, errAuthRequired
	}
	m := &Manager{store: s, auth: auth, scope: scope}
	var principal api.Principal
	if ok, err := store.ReadJSON(ctx, s, scope, store.KeyPrincipal, &principal); err != nil {
		return nil, err
	} else if ok && principal.ID != "" && principal.Token != "" {
		m.principal = &principal
	}
	return m, nil
}

// Principal returns a copy of the held principal, or nil when anonymous.
func (m *Manager) Principal() *api.Principal {
	if m.principal == nil {
		return nil
	}
	dup := *m.principal
	return &dup
}

// Token implements api.TokenSource for the gateway.
func (m *Manager) Token(context.Context) string {
	if m.principal == nil {
		return ""
	}
	return m.principal.Token
}

// Login exchanges credentials for a principal, overwriting any previously
// held identity. On failure the held state is untouched and the backend's
// message is surfaced through the fault.
func (m *Manager) Login(ctx context.Context, email, password string) (api.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return api.Principal{}, faults.Validation("email and password are required")
	}
	principal, err := m.auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return api.Principal{}, err
	}
	return principal, m.hold(ctx, principal)
}

// Register creates an account with the same contract as Login. Artisan
// registrations must carry a company name; the details are dropped for
// customer accounts by the gateway.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) (api.Principal, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return api.Principal{}, faults.Validation("username, email and password are required")
	}
	if req.Role != api.RoleCustomer && req.Role != api.RoleArtisan {
		return api.Principal{}, faults.Validation("role must be customer or artisan")
	}
	if req.Role == api.RoleArtisan {
		if req.ArtisanDetails == nil || strings.TrimSpace(req.ArtisanDetails.CompanyName) == "" {
			return api.Principal{}, faults.Validation("company name is required for artisan accounts")
		}
	}
	principal, err := m.auth.Register(ctx, req)
	if err != nil {
		return api.Principal{}, err
	}
	return principal, m.hold(ctx, principal)
}

// Logout erases the persisted and held principal. It is synchronous,
// idempotent, and makes no network call.
func (m *Manager) Logout(ctx context.Context) error {
	m.principal = nil
	return m.store.Delete(ctx, m.scope, store.KeyPrincipal)
}

func (m *Manager) hold(ctx context.Context, principal api.Principal) error {
	if err := store.WriteJSON(ctx, m.store, m.scope, store.KeyPrincipal, principal); err != nil {
		return err
	}
	m.principal = &principal
	return nil
}
