package main

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	mw "craftfield.org/atelier-web/internal/middleware"
	"craftfield.org/atelier-web/internal/session"
)

// ThemeHandler toggles the persisted UI theme and returns to the page the
// toggle was clicked on.
func (a *App) ThemeHandler(w http.ResponseWriter, r *http.Request) {
	scope := mw.ScopeID(r.Context())
	theme := r.FormValue("theme")
	if theme == "" {
		// no explicit value means toggle
		if session.Theme(r.Context(), a.store, scope) == session.ThemeDark {
			theme = session.ThemeLight
		} else {
			theme = session.ThemeDark
		}
	}
	if err := session.SetTheme(r.Context(), a.store, scope, theme); err != nil {
		a.logger.Warn("persist theme failed", zap.Error(err))
	}
	back := r.FormValue("return_to")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
