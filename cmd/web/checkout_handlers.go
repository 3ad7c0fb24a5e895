package main

import (
	"errors"
	"net/http"

	"craftfield.org/atelier-web/internal/api"
	"craftfield.org/atelier-web/internal/checkout"
	"craftfield.org/atelier-web/internal/platform/faults"
)

// CheckoutStepView is one entry of the checkout stepper.
type CheckoutStepView struct {
	Key       string
	Label     string
	Href      string
	Active    bool
	Completed bool
}

// CheckoutView is the shared view model of the checkout pages.
type CheckoutView struct {
	Steps          []CheckoutStepView
	Address        *api.ShippingAddress
	PaymentMethod  string
	PaymentMethods []string
	Quote          checkout.Quote
	Cart           CartView
}

var checkoutSteps = []struct {
	step  checkout.Step
	label string
	href  string
}{
	{checkout.StepAddress, "Shipping", "/checkout/shipping"},
	{checkout.StepPayment, "Payment", "/checkout/payment"},
	{checkout.StepReview, "Place Order", "/checkout/placeorder"},
}

func buildCheckoutView(c *checkout.Controller, active checkout.Step) CheckoutView {
	view := CheckoutView{
		Address:        c.Address(),
		PaymentMethod:  c.PaymentMethod(),
		PaymentMethods: checkout.PaymentMethods,
		Quote:          c.Quote(),
	}
	passed := true
	for _, s := range checkoutSteps {
		if s.step == active {
			passed = false
		}
		view.Steps = append(view.Steps, CheckoutStepView{
			Key:       string(s.step),
			Label:     s.label,
			Href:      s.href,
			Active:    s.step == active,
			Completed: passed,
		})
	}
	return view
}

// checkoutGuard builds the controller and enforces the flow's entry
// conditions, handling the redirect itself on failure.
func (a *App) checkoutGuard(w http.ResponseWriter, r *http.Request) (*checkout.Controller, bool) {
	ctl, err := a.checkoutController(r)
	if err != nil {
		a.failPage(w, r, err, "/cart")
		return nil, false
	}
	if err := ctl.Guard(); err != nil {
		a.checkoutFail(w, r, err)
		return nil, false
	}
	return ctl, true
}

// checkoutFail maps flow errors onto redirects: sign-in for anonymous
// buyers, back to the shelf for empty carts, back to the flow otherwise.
func (a *App) checkoutFail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		loginRedirect(w, r, r.URL.Path, "please sign in to check out")
	case errors.Is(err, checkout.ErrCartEmpty):
		redirect(w, r, "/products", "problem", "your cart is empty")
	case errors.Is(err, checkout.ErrNotReady):
		redirect(w, r, "/checkout/shipping", "problem", "complete the earlier checkout steps first")
	case errors.Is(err, checkout.ErrSubmitInFlight):
		redirect(w, r, "/checkout/placeorder", "problem", "your order is already being submitted")
	default:
		a.failPage(w, r, err, "/checkout/placeorder")
	}
}

// ShippingHandler renders the address step, prefilled with any captured
// answer.
func (a *App) ShippingHandler(w http.ResponseWriter, r *http.Request) {
	ctl, ok := a.checkoutGuard(w, r)
	if !ok {
		return
	}
	vm := a.basePage(r, "Shipping")
	vm.Checkout = buildCheckoutView(ctl, checkout.StepAddress)
	a.renderPage(w, r, "checkout_shipping", vm)
}

// ShippingSubmitHandler captures the shipping address.
func (a *App) ShippingSubmitHandler(w http.ResponseWriter, r *http.Request) {
	ctl, ok := a.checkoutGuard(w, r)
	if !ok {
		return
	}
	addr := api.ShippingAddress{
		Address:    r.FormValue("address"),
		City:       r.FormValue("city"),
		PostalCode: r.FormValue("postal_code"),
		Country:    r.FormValue("country"),
	}
	if err := ctl.SubmitAddress(r.Context(), addr); err != nil {
		if faults.KindOf(err) == faults.KindValidation {
			redirect(w, r, "/checkout/shipping", "problem", faults.MessageOf(err))
			return
		}
		a.checkoutFail(w, r, err)
		return
	}
	redirect(w, r, "/checkout/payment")
}

// PaymentHandler renders the payment method step.
func (a *App) PaymentHandler(w http.ResponseWriter, r *http.Request) {
	ctl, ok := a.checkoutGuard(w, r)
	if !ok {
		return
	}
	if ctl.Address() == nil {
		redirect(w, r, "/checkout/shipping", "problem", "enter your shipping address first")
		return
	}
	vm := a.basePage(r, "Payment Method")
	vm.Checkout = buildCheckoutView(ctl, checkout.StepPayment)
	a.renderPage(w, r, "checkout_payment", vm)
}

// PaymentSubmitHandler captures the processor choice.
func (a *App) PaymentSubmitHandler(w http.ResponseWriter, r *http.Request) {
	ctl, ok := a.checkoutGuard(w, r)
	if !ok {
		return
	}
	if err := ctl.SelectPaymentMethod(r.Context(), r.FormValue("payment_method")); err != nil {
		if faults.KindOf(err) == faults.KindValidation {
			redirect(w, r, "/checkout/payment", "problem", faults.MessageOf(err))
			return
		}
		a.checkoutFail(w, r, err)
		return
	}
	redirect(w, r, "/checkout/placeorder")
}

// PlaceOrderHandler renders the review step: line items, captured answers,
// and the derived price breakdown.
func (a *App) PlaceOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctl, ok := a.checkoutGuard(w, r)
	if !ok {
		return
	}
	if ctl.Step() != checkout.StepReview {
		a.checkoutFail(w, r, checkout.ErrNotReady)
		return
	}
	crt, err := a.cartManager(r)
	if err != nil {
		a.failPage(w, r, err, "/cart")
		return
	}
	view := buildCheckoutView(ctl, checkout.StepReview)
	view.Cart = buildCartView(crt)
	vm := a.basePage(r, "Review Your Order")
	vm.Checkout = view
	a.renderPage(w, r, "checkout_review", vm)
}

// PlaceOrderSubmitHandler performs the single atomic order submission.
func (a *App) PlaceOrderSubmitHandler(w http.ResponseWriter, r *http.Request) {
	ctl, ok := a.checkoutGuard(w, r)
	if !ok {
		return
	}
	order, err := ctl.PlaceOrder(r.Context())
	if err != nil {
		a.checkoutFail(w, r, err)
		return
	}
	redirect(w, r, "/orders/"+order.ID, "notice", "thank you, your order was placed")
}
