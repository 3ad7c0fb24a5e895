package session

import (
	"context"

	"craftfield.org/atelier-web/internal/store"
)

// UI theme preferences persisted alongside the identity.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme returns the persisted UI theme preference, defaulting to light.
func Theme(ctx context.Context, s store.Store, scope string) string {
	var theme string
	if ok, _ := store.ReadJSON(ctx, s, scope, store.KeyTheme, &theme); ok {
		if theme == ThemeDark {
			return ThemeDark
		}
	}
	return ThemeLight
}

// SetTheme persists the UI theme preference; unknown values fall back to
// light.
func SetTheme(ctx context.Context, s store.Store, scope, theme string) error {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return store.WriteJSON(ctx, s, scope, store.KeyTheme, theme)
}
