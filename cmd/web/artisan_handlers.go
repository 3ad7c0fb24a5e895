package main

import (
	"html/template"
	"net/http"

	"craftfield.org/atelier-web/internal/api"
	"craftfield.org/atelier-web/internal/content"
)

// ArtisanCard is one entry of the artisan directory.
type ArtisanCard struct {
	ID             string
	Username       string
	CompanyName    string
	Bio            template.HTML
	ProfilePicture string
}

// ArtisansView is the view model for the directory page.
type ArtisansView struct {
	Artisans []ArtisanCard
	Empty    bool
}

// ArtisansHandler renders the public artisan directory. Bios are
// seller-provided markdown and are sanitized before display.
func (a *App) ArtisansHandler(w http.ResponseWriter, r *http.Request) {
	artisans, err := a.api.ListArtisans(r.Context())
	if err != nil {
		a.failPage(w, r, err, "/")
		return
	}
	vm := a.basePage(r, "Our Artisans")
	vm.Artisans = buildArtisansView(artisans)
	a.renderPage(w, r, "artisans", vm)
}

func buildArtisansView(artisans []api.ArtisanSummary) ArtisansView {
	view := ArtisansView{
		Artisans: make([]ArtisanCard, 0, len(artisans)),
		Empty:    len(artisans) == 0,
	}
	for _, artisan := range artisans {
		view.Artisans = append(view.Artisans, ArtisanCard{
			ID:             artisan.ID,
			Username:       artisan.Username,
			CompanyName:    artisan.CompanyName,
			Bio:            content.RenderMarkdown(artisan.Bio),
			ProfilePicture: artisan.ProfilePicture,
		})
	}
	return view
}
