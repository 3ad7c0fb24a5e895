package handlers

import (
	"craftfield.org/atelier-web/internal/api"
	"craftfield.org/atelier-web/internal/nav"
)

// PageData is the generic view model for pages using the shared layout.
type PageData struct {
	Title string
	Site  string
	Path  string
	Theme string

	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	Principal *api.Principal
	CartCount int
	CSRFToken string

	// Notice and Problem carry one-shot banners rendered above the page body.
	Notice  string
	Problem string

	// Optional per-page view model payloads
	Home      any
	Products  any
	Cart      any
	Checkout  any
	Orders    any
	Order     any
	Artisans  any
	Dashboard any
	Auth      any
}
