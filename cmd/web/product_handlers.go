package main

import (
	"net/http"
	"strconv"
	"strings"

	"craftfield.org/atelier-web/internal/api"
	"craftfield.org/atelier-web/internal/cart"
	"craftfield.org/atelier-web/internal/platform/faults"
)

// catalog categories offered in the filter bar. "all" disables the filter.
var productCategories = []string{
	"all",
	"ceramics",
	"woodwork",
	"textiles",
	"jewelry",
	"glasswork",
	"leather",
}

// ProductsView is the view model for the catalog page.
type ProductsView struct {
	Products   []api.Product
	Keyword    string
	Category   string
	ArtisanID  string
	Categories []string
	CSRFToken  string
}

// HomeHandler renders the landing page with the newest catalog entries.
func (a *App) HomeHandler(w http.ResponseWriter, r *http.Request) {
	products, err := a.api.ListProducts(r.Context(), api.ProductFilter{})
	if err != nil {
		// the landing page degrades to an empty shelf rather than failing
		products = nil
	}
	if len(products) > 8 {
		products = products[:8]
	}
	vm := a.basePage(r, "Handmade by independent artisans")
	vm.Home = ProductsView{Products: products, CSRFToken: vm.CSRFToken}
	a.renderPage(w, r, "home", vm)
}

// ProductsHandler renders the filterable catalog.
func (a *App) ProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := api.ProductFilter{
		Keyword:   q.Get("keyword"),
		Category:  q.Get("category"),
		ArtisanID: q.Get("artisan"),
	}
	products, err := a.api.ListProducts(r.Context(), filter)
	if err != nil {
		a.failPage(w, r, err, "/")
		return
	}
	vm := a.basePage(r, "Products")
	vm.Products = ProductsView{
		Products:   products,
		Keyword:    filter.Keyword,
		Category:   filter.Category,
		ArtisanID:  filter.ArtisanID,
		Categories: productCategories,
		CSRFToken:  vm.CSRFToken,
	}
	a.renderPage(w, r, "products", vm)
}

// CartAddHandler adds a product to the cart. The product's current price and
// stock are snapshotted from the backend at add time; a request past the
// stock ceiling is rejected whole.
func (a *App) CartAddHandler(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(r.FormValue("product_id"))
	if productID == "" {
		redirect(w, r, "/products", "problem", "no product selected")
		return
	}
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	product, err := a.api.GetProduct(r.Context(), productID)
	if err != nil {
		a.failPage(w, r, err, "/products")
		return
	}

	crt, err := a.cartManager(r)
	if err != nil {
		a.failPage(w, r, err, "/products")
		return
	}
	err = crt.AddItem(r.Context(), cart.LineItem{
		ProductID:    product.ID,
		Name:         product.Name,
		ImageURL:     product.ImageURL,
		Price:        product.Price,
		Quantity:     quantity,
		CountInStock: product.Quantity,
	})
	if err != nil {
		back := r.FormValue("return_to")
		if back == "" || !strings.HasPrefix(back, "/") {
			back = "/products"
		}
		redirect(w, r, back, "problem", faults.MessageOf(err))
		return
	}
	redirect(w, r, "/cart", "notice", product.Name+" added to your cart")
}
