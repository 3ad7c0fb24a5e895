package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"craftfield.org/atelier-web/internal/api"
	mw "craftfield.org/atelier-web/internal/middleware"
	"craftfield.org/atelier-web/internal/platform/faults"
)

// OrdersView is the view model for the order-history page.
type OrdersView struct {
	Orders []api.OrderSummary
	Empty  bool
}

// OrderView is the view model for a single order page.
type OrderView struct {
	Order api.Order
}

// MyOrdersHandler renders the signed-in buyer's order history.
func (a *App) MyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireSignIn(w, r) {
		return
	}
	orders, err := a.api.MyOrders(r.Context())
	if err != nil {
		a.failPage(w, r, err, "/")
		return
	}
	vm := a.basePage(r, "My Orders")
	vm.Orders = OrdersView{Orders: orders, Empty: len(orders) == 0}
	a.renderPage(w, r, "orders", vm)
}

// OrderHandler renders one order snapshot.
func (a *App) OrderHandler(w http.ResponseWriter, r *http.Request) {
	if !a.requireSignIn(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	order, err := a.api.GetOrder(r.Context(), id)
	if err != nil {
		if faults.KindOf(err) == faults.KindBusiness {
			redirect(w, r, "/orders", "problem", faults.MessageOf(err))
			return
		}
		a.failPage(w, r, err, "/orders")
		return
	}
	vm := a.basePage(r, "Order "+order.ID)
	vm.Order = OrderView{Order: order}
	a.renderPage(w, r, "order", vm)
}

// requireSignIn redirects anonymous visitors to login, resuming at the
// current path.
func (a *App) requireSignIn(w http.ResponseWriter, r *http.Request) bool {
	if mw.PrincipalFromContext(r.Context()) == nil {
		loginRedirect(w, r, r.URL.Path, "")
		return false
	}
	return true
}
