package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"craftfield.org/atelier-web/internal/platform/config"
	"craftfield.org/atelier-web/internal/store"
)

// newBackend fakes the storefront API with a fixed catalog and permissive
// auth.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	product := map[string]any{
		"_id":      "p1",
		"name":     "Stoneware mug",
		"price":    "40",
		"category": "ceramics",
		"imageUrl": "",
		"quantity": 5,
		"artisan":  map[string]any{"_id": "u9", "companyName": "Kiln & Co"},
	}
	mux := http.NewServeMux()
	reply := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		reply(w, []any{product})
	})
	mux.HandleFunc("GET /api/products/p1", func(w http.ResponseWriter, r *http.Request) {
		reply(w, product)
	})
	mux.HandleFunc("GET /api/auth/artisans", func(w http.ResponseWriter, r *http.Request) {
		reply(w, []any{})
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		reply(w, map[string]any{
			"_id": "u1", "username": "maya", "email": "maya@example.com",
			"role": "customer", "token": "tok-1",
		})
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		reply(w, map[string]any{"_id": "ord-1"})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	backend := newBackend(t)
	cfg := config.Config{
		Server:  config.ServerConfig{DevMode: true},
		Backend: config.BackendConfig{BaseURL: backend.URL + "/api"},
		Session: config.SessionConfig{SigningKey: "test-signing-key"},
		Site:    config.SiteConfig{Name: "Atelier"},
	}
	app, err := newApp(cfg, zap.NewNop(), store.NewMemory(), "../../templates")
	require.NoError(t, err)
	return app
}

// browser drives the router holding cookies across requests, like a real
// client would.
type browser struct {
	t       *testing.T
	app     *App
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, app *App) *browser {
	return &browser{t: t, app: app, handler: app.router(), cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		if method == http.MethodPost {
			form.Set("csrf_token", b.csrfToken())
		}
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil)
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, target, form)
}

// csrfToken derives the token for the browser's current scope cookie.
func (b *browser) csrfToken() string {
	c, ok := b.cookies["ATELIER_SCOPE"]
	if !ok {
		// establish a scope first
		b.get("/healthz")
		c = b.cookies["ATELIER_SCOPE"]
	}
	scope := strings.SplitN(c.Value, ".", 2)[0]
	return b.app.scoper.CSRFToken(scope)
}

func (b *browser) signIn() {
	b.t.Helper()
	rec := b.post("/login", url.Values{
		"email":    {"maya@example.com"},
		"password": {"secret"},
		"redirect": {"/"},
	})
	require.Equal(b.t, http.StatusSeeOther, rec.Code)
}

func TestHealthz(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	rec := b.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestHomePageRenders(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Atelier")
	require.Contains(t, rec.Body.String(), "Stoneware mug")
}

func TestProductsPageRenders(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	rec := b.get("/products?keyword=mug")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Stoneware mug")
	require.Contains(t, rec.Body.String(), "40.00")
}

func TestCartLifecycle(t *testing.T) {
	b := newBrowser(t, newTestApp(t))

	rec := b.post("/cart/add", url.Values{"product_id": {"p1"}, "quantity": {"2"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/cart"))

	rec = b.get("/cart")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Stoneware mug")
	require.Contains(t, rec.Body.String(), "80.00")

	rec = b.post("/cart/remove", url.Values{"product_id": {"p1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = b.get("/cart")
	require.Contains(t, rec.Body.String(), "Your cart is empty")
}

func TestCartAddPastStockRejected(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	rec := b.post("/cart/add", url.Values{"product_id": {"p1"}, "quantity": {"9"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Contains(t, loc.Query().Get("problem"), "cannot add more than 5")

	rec = b.get("/cart")
	require.Contains(t, rec.Body.String(), "Your cart is empty")
}

func TestCheckoutRequiresSignIn(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	b.post("/cart/add", url.Values{"product_id": {"p1"}, "quantity": {"1"}})

	rec := b.get("/checkout/shipping")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login"))
}

func TestCheckoutEmptyCartRedirectsToCatalog(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	b.signIn()

	rec := b.get("/checkout/shipping")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/products"))
}

func TestFullCheckoutFlow(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	b.signIn()
	b.post("/cart/add", url.Values{"product_id": {"p1"}, "quantity": {"1"}})

	rec := b.get("/checkout/shipping")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.post("/checkout/shipping", url.Values{
		"address":     {"1 Kiln Lane"},
		"city":        {"Porto"},
		"postal_code": {"4000"},
		"country":     {"PT"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/checkout/payment", rec.Header().Get("Location"))

	rec = b.post("/checkout/payment", url.Values{"payment_method": {"PayPal"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/checkout/placeorder", rec.Header().Get("Location"))

	rec = b.get("/checkout/placeorder")
	require.Equal(t, http.StatusOK, rec.Code)
	// items 40 + shipping 10 + tax 6
	require.Contains(t, rec.Body.String(), "56.00")

	rec = b.post("/checkout/placeorder", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/orders/ord-1"))

	// the submission emptied the cart
	rec = b.get("/cart")
	require.Contains(t, rec.Body.String(), "Your cart is empty")
}

func TestIncompleteAddressStaysOnShipping(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	b.signIn()
	b.post("/cart/add", url.Values{"product_id": {"p1"}, "quantity": {"1"}})

	rec := b.post("/checkout/shipping", url.Values{
		"address": {"1 Kiln Lane"},
		"city":    {""},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/checkout/shipping"))
}

func TestPostWithoutCSRFRejected(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	b.get("/healthz")

	req := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader("product_id=p1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutDropsIdentity(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	b.signIn()

	rec := b.get("/")
	require.Contains(t, rec.Body.String(), "maya")

	rec = b.post("/logout", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = b.get("/")
	require.NotContains(t, rec.Body.String(), "maya")
	require.Contains(t, rec.Body.String(), "Sign in")
}

func TestDashboardTurnsCustomersAway(t *testing.T) {
	b := newBrowser(t, newTestApp(t))
	b.signIn() // customer role

	rec := b.get("/dashboard")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/?problem="))
}

func TestThemeToggle(t *testing.T) {
	b := newBrowser(t, newTestApp(t))

	rec := b.get("/")
	require.Contains(t, rec.Body.String(), `data-theme="light"`)

	rec = b.post("/theme", url.Values{"return_to": {"/"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = b.get("/")
	require.Contains(t, rec.Body.String(), `data-theme="dark"`)
}
