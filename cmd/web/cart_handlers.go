package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"craftfield.org/atelier-web/internal/cart"
	"craftfield.org/atelier-web/internal/platform/faults"
)

// CartLine is one row of the cart table.
type CartLine struct {
	ProductID    string
	Name         string
	ImageURL     string
	Price        decimal.Decimal
	Quantity     int
	CountInStock int
	Subtotal     decimal.Decimal
	AtCeiling    bool
}

// CartView is the view model for the cart page.
type CartView struct {
	Lines      []CartLine
	Empty      bool
	TotalItems int
	TotalPrice decimal.Decimal
}

func buildCartView(m *cart.Manager) CartView {
	items := m.Items()
	view := CartView{
		Lines:      make([]CartLine, 0, len(items)),
		Empty:      len(items) == 0,
		TotalItems: m.TotalItemCount(),
		TotalPrice: m.TotalPrice(),
	}
	for _, item := range items {
		view.Lines = append(view.Lines, CartLine{
			ProductID:    item.ProductID,
			Name:         item.Name,
			ImageURL:     item.ImageURL,
			Price:        item.Price,
			Quantity:     item.Quantity,
			CountInStock: item.CountInStock,
			Subtotal:     item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			AtCeiling:    item.Quantity >= item.CountInStock,
		})
	}
	return view
}

// CartHandler renders the cart page.
func (a *App) CartHandler(w http.ResponseWriter, r *http.Request) {
	crt, err := a.cartManager(r)
	if err != nil {
		a.failPage(w, r, err, "/")
		return
	}
	vm := a.basePage(r, "Your Cart")
	vm.Cart = buildCartView(crt)
	a.renderPage(w, r, "cart", vm)
}

// CartUpdateHandler sets a line's quantity. A value past the stock ceiling
// is clamped and the buyer is told so.
func (a *App) CartUpdateHandler(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(r.FormValue("product_id"))
	quantity, convErr := strconv.Atoi(r.FormValue("quantity"))
	if productID == "" || convErr != nil {
		redirect(w, r, "/cart", "problem", "invalid quantity update")
		return
	}
	crt, err := a.cartManager(r)
	if err != nil {
		a.failPage(w, r, err, "/cart")
		return
	}
	if err := crt.UpdateQuantity(r.Context(), productID, quantity); err != nil {
		if faults.KindOf(err) == faults.KindCapacity {
			// the clamped quantity was kept; only the banner differs
			redirect(w, r, "/cart", "notice", faults.MessageOf(err))
			return
		}
		a.failPage(w, r, err, "/cart")
		return
	}
	redirect(w, r, "/cart")
}

// CartRemoveHandler drops a line from the cart.
func (a *App) CartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	crt, err := a.cartManager(r)
	if err != nil {
		a.failPage(w, r, err, "/cart")
		return
	}
	if err := crt.RemoveItem(r.Context(), strings.TrimSpace(r.FormValue("product_id"))); err != nil {
		a.failPage(w, r, err, "/cart")
		return
	}
	redirect(w, r, "/cart")
}

// CartClearHandler empties the cart.
func (a *App) CartClearHandler(w http.ResponseWriter, r *http.Request) {
	crt, err := a.cartManager(r)
	if err != nil {
		a.failPage(w, r, err, "/cart")
		return
	}
	if err := crt.Clear(r.Context()); err != nil {
		a.failPage(w, r, err, "/cart")
		return
	}
	redirect(w, r, "/cart", "notice", "cart cleared")
}
