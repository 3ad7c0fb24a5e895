package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"craftfield.org/atelier-web/internal/api"
	mw "craftfield.org/atelier-web/internal/middleware"
	"craftfield.org/atelier-web/internal/platform/faults"
)

// DashboardView is the view model for the artisan product manager.
type DashboardView struct {
	Products   []api.Product
	Categories []string
	Company    string
}

// requireArtisan gates the dashboard: anonymous visitors get the login
// redirect, customers get turned away.
func (a *App) requireArtisan(w http.ResponseWriter, r *http.Request) *api.Principal {
	principal := mw.PrincipalFromContext(r.Context())
	if principal == nil {
		loginRedirect(w, r, "/dashboard", "")
		return nil
	}
	if !principal.IsArtisan() {
		redirect(w, r, "/", "problem", "the dashboard is for artisan accounts")
		return nil
	}
	return principal
}

// DashboardHandler renders the artisan's own catalog with the product form.
func (a *App) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	principal := a.requireArtisan(w, r)
	if principal == nil {
		return
	}
	products, err := a.api.ArtisanProducts(r.Context())
	if err != nil {
		a.failPage(w, r, err, "/")
		return
	}
	view := DashboardView{
		Products:   products,
		Categories: productCategories[1:], // "all" is a filter, not a category
	}
	if principal.ArtisanDetails != nil {
		view.Company = principal.ArtisanDetails.CompanyName
	}
	vm := a.basePage(r, "Dashboard")
	vm.Dashboard = view
	a.renderPage(w, r, "dashboard", vm)
}

// productInputFromForm assembles the create/update payload, validating the
// numeric fields.
func productInputFromForm(r *http.Request) (api.ProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	if err != nil || price.IsNegative() {
		return api.ProductInput{}, faults.Validation("price must be a non-negative number")
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || quantity < 0 {
		return api.ProductInput{}, faults.Validation("quantity must be a non-negative whole number")
	}
	input := api.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Price:       price,
		Category:    strings.TrimSpace(r.FormValue("category")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		Quantity:    quantity,
	}
	if input.Name == "" || input.Description == "" || input.Category == "" {
		return api.ProductInput{}, faults.Validation("name, description and category are required")
	}
	return input, nil
}

// ProductCreateHandler registers a new product for the artisan.
func (a *App) ProductCreateHandler(w http.ResponseWriter, r *http.Request) {
	if a.requireArtisan(w, r) == nil {
		return
	}
	input, err := productInputFromForm(r)
	if err != nil {
		redirect(w, r, "/dashboard", "problem", faults.MessageOf(err))
		return
	}
	product, err := a.api.CreateProduct(r.Context(), input)
	if err != nil {
		a.failPage(w, r, err, "/dashboard")
		return
	}
	redirect(w, r, "/dashboard", "notice", product.Name+" added to your catalog")
}

// ProductUpdateHandler replaces an existing product's fields.
func (a *App) ProductUpdateHandler(w http.ResponseWriter, r *http.Request) {
	if a.requireArtisan(w, r) == nil {
		return
	}
	input, err := productInputFromForm(r)
	if err != nil {
		redirect(w, r, "/dashboard", "problem", faults.MessageOf(err))
		return
	}
	product, err := a.api.UpdateProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		a.failPage(w, r, err, "/dashboard")
		return
	}
	redirect(w, r, "/dashboard", "notice", product.Name+" updated")
}

// ProductDeleteHandler removes a product from the artisan's catalog.
func (a *App) ProductDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if a.requireArtisan(w, r) == nil {
		return
	}
	if err := a.api.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.failPage(w, r, err, "/dashboard")
		return
	}
	redirect(w, r, "/dashboard", "notice", "product removed")
}
