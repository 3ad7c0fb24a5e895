// Package checkout drives the multi-step purchase flow: address capture,
// payment method selection, review, and the single atomic order submission.
// Each browser scope owns one flow; intermediate answers are persisted so the
// flow survives reloads, and the whole flow resets once an order succeeds.
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"craftfield.org/atelier-web/internal/api"
	"craftfield.org/atelier-web/internal/cart"
	"craftfield.org/atelier-web/internal/platform/faults"
	"craftfield.org/atelier-web/internal/session"
	"craftfield.org/atelier-web/internal/store"
)

// Step identifies a stage of the checkout flow.
type Step string

const (
	StepAddress   Step = "address"
	StepPayment   Step = "payment"
	StepReview    Step = "review"
	StepSubmitted Step = "submitted"
)

// PaymentMethods lists the accepted payment processors in display order.
// The first entry is offered as the default. Deployments may override this
// at startup; it is not mutated afterwards.
var PaymentMethods = []string{"PayPal", "Stripe"}

// DefaultPaymentMethod is the processor preselected when the buyer has not
// chosen one yet.
const DefaultPaymentMethod = "PayPal"

var (
	// ErrCartEmpty is returned when the flow is entered or advanced with
	// nothing in the cart.
	ErrCartEmpty = errors.New("checkout: cart is empty")
	// ErrNotAuthenticated is returned when the flow is entered without a
	// signed-in principal.
	ErrNotAuthenticated = errors.New("checkout: authentication required")
	// ErrNotReady is returned when PlaceOrder is called before the flow
	// reached the review step.
	ErrNotReady = errors.New("checkout: order is not ready to submit")
	// ErrSubmitInFlight is returned when a second submission races one
	// already on the wire for the same scope.
	ErrSubmitInFlight = errors.New("checkout: an order submission is already in progress")
)

// submissions tracks scopes with an order submission on the wire. It is
// process-wide because controllers are rebuilt per request.
var submissions sync.Map

// ordersAPI is the slice of the backend gateway the flow needs.
type ordersAPI interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (api.Order, error)
}

// Deps carries the collaborators of one checkout flow.
type Deps struct {
	Store   store.Store
	Cart    *cart.Manager
	Session *session.Manager
	Orders  ordersAPI
	// Rates defaults to the standing pricing policy when zero.
	Rates Rates
}

func (d Deps) validate() error {
	if d.Store == nil {
		return errors.New("checkout: store is required")
	}
	if d.Cart == nil {
		return errors.New("checkout: cart is required")
	}
	if d.Session == nil {
		return errors.New("checkout: session is required")
	}
	if d.Orders == nil {
		return errors.New("checkout: orders client is required")
	}
	return nil
}

// Controller owns the checkout flow of one browser scope.
type Controller struct {
	deps    Deps
	scope   string
	address *api.ShippingAddress
	method  string
	step    Step
}

// NewController restores the persisted flow state for the scope. Corrupt
// persisted entries are erased and treated as absent. The restored step is
// downgraded to the earliest step whose prerequisites are missing, so a
// stale "review" never renders without an address behind it.
func NewController(ctx context.Context, scope string, deps Deps) (*Controller, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	c := &Controller{deps: deps, scope: scope, step: StepAddress}

	var addr api.ShippingAddress
	if ok, err := store.ReadJSON(ctx, deps.Store, scope, store.KeyShippingAddress, &addr); err != nil {
		return nil, err
	} else if ok && completeAddress(addr) {
		c.address = &addr
	}

	var method string
	if ok, err := store.ReadJSON(ctx, deps.Store, scope, store.KeyPaymentMethod, &method); err != nil {
		return nil, err
	} else if ok && knownMethod(method) {
		c.method = method
	}

	var step Step
	if ok, err := store.ReadJSON(ctx, deps.Store, scope, store.KeyCheckoutStep, &step); err != nil {
		return nil, err
	} else if ok {
		c.step = c.effectiveStep(step)
	}
	return c, nil
}

// effectiveStep caps a persisted step at what the captured answers support.
func (c *Controller) effectiveStep(persisted Step) Step {
	switch persisted {
	case StepAddress, StepPayment, StepReview:
	default:
		return StepAddress
	}
	if c.address == nil {
		return StepAddress
	}
	if persisted == StepReview && c.method == "" {
		return StepPayment
	}
	return persisted
}

// Guard checks the flow's entry conditions: a signed-in principal and a
// non-empty cart. Handlers call it before rendering any checkout step.
func (c *Controller) Guard() error {
	if c.deps.Session.Principal() == nil {
		return ErrNotAuthenticated
	}
	if c.deps.Cart.IsEmpty() {
		return ErrCartEmpty
	}
	return nil
}

// Step reports the current step of the flow.
func (c *Controller) Step() Step { return c.step }

// Address returns a copy of the captured shipping address, or nil.
func (c *Controller) Address() *api.ShippingAddress {
	if c.address == nil {
		return nil
	}
	dup := *c.address
	return &dup
}

// PaymentMethod reports the selected processor, defaulting when none was
// chosen yet.
func (c *Controller) PaymentMethod() string {
	if c.method == "" {
		return DefaultPaymentMethod
	}
	return c.method
}

// SubmitAddress captures the shipping address and advances to the payment
// step. All four fields are required after trimming.
func (c *Controller) SubmitAddress(ctx context.Context, addr api.ShippingAddress) error {
	if err := c.Guard(); err != nil {
		return err
	}
	addr.Address = strings.TrimSpace(addr.Address)
	addr.City = strings.TrimSpace(addr.City)
	addr.PostalCode = strings.TrimSpace(addr.PostalCode)
	addr.Country = strings.TrimSpace(addr.Country)
	if !completeAddress(addr) {
		return faults.Validation("address, city, postal code and country are all required")
	}
	if err := store.WriteJSON(ctx, c.deps.Store, c.scope, store.KeyShippingAddress, addr); err != nil {
		return err
	}
	c.address = &addr
	return c.setStep(ctx, StepPayment)
}

// SelectPaymentMethod captures the processor choice and advances to review.
func (c *Controller) SelectPaymentMethod(ctx context.Context, method string) error {
	if err := c.Guard(); err != nil {
		return err
	}
	if c.address == nil {
		return ErrNotReady
	}
	method = strings.TrimSpace(method)
	if method == "" {
		method = DefaultPaymentMethod
	}
	if !knownMethod(method) {
		return faults.Validation("unsupported payment method: " + method)
	}
	if err := store.WriteJSON(ctx, c.deps.Store, c.scope, store.KeyPaymentMethod, method); err != nil {
		return err
	}
	c.method = method
	return c.setStep(ctx, StepReview)
}

// Quote derives the current price breakdown from the cart.
func (c *Controller) Quote() Quote {
	return QuoteFor(c.deps.Cart.TotalPrice(), c.deps.Rates)
}

// PlaceOrder converts the cart and captured answers into a single atomic
// order submission. At most one submission per scope is on the wire at a
// time. On success the cart and the intermediate checkout state are cleared
// and the flow moves to submitted; on failure everything is left exactly as
// it was so the buyer can retry.
func (c *Controller) PlaceOrder(ctx context.Context) (api.Order, error) {
	if err := c.Guard(); err != nil {
		return api.Order{}, err
	}
	if c.step != StepReview || c.address == nil {
		return api.Order{}, ErrNotReady
	}

	if _, busy := submissions.LoadOrStore(c.scope, struct{}{}); busy {
		return api.Order{}, ErrSubmitInFlight
	}
	defer submissions.Delete(c.scope)

	items := c.deps.Cart.Items()
	quote := c.Quote()
	req := api.CreateOrderRequest{
		OrderItems:      make([]api.OrderItemInput, 0, len(items)),
		ShippingAddress: *c.address,
		PaymentMethod:   c.PaymentMethod(),
		ItemsPrice:      quote.ItemsPrice,
		TaxPrice:        quote.TaxPrice,
		ShippingPrice:   quote.ShippingPrice,
		TotalPrice:      quote.TotalPrice,
	}
	for _, item := range items {
		req.OrderItems = append(req.OrderItems, api.OrderItemInput{
			Product: item.ProductID,
			Name:    item.Name,
			Image:   item.ImageURL,
			Price:   item.Price,
			Qty:     item.Quantity,
		})
	}

	order, err := c.deps.Orders.CreateOrder(ctx, req)
	if err != nil {
		return api.Order{}, err
	}

	if err := c.deps.Cart.Clear(ctx); err != nil {
		return order, err
	}
	if err := c.clearState(ctx); err != nil {
		return order, err
	}
	c.step = StepSubmitted
	return order, nil
}

// Abandon discards the intermediate checkout state without touching the
// cart. It is idempotent.
func (c *Controller) Abandon(ctx context.Context) error {
	if err := c.clearState(ctx); err != nil {
		return err
	}
	c.step = StepAddress
	return nil
}

func (c *Controller) setStep(ctx context.Context, step Step) error {
	if err := store.WriteJSON(ctx, c.deps.Store, c.scope, store.KeyCheckoutStep, step); err != nil {
		return err
	}
	c.step = step
	return nil
}

func (c *Controller) clearState(ctx context.Context) error {
	for _, key := range []string{store.KeyShippingAddress, store.KeyPaymentMethod, store.KeyCheckoutStep} {
		if err := c.deps.Store.Delete(ctx, c.scope, key); err != nil {
			return err
		}
	}
	c.address = nil
	c.method = ""
	return nil
}

func completeAddress(addr api.ShippingAddress) bool {
	return addr.Address != "" && addr.City != "" && addr.PostalCode != "" && addr.Country != ""
}

func knownMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
