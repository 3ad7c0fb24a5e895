package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"craftfield.org/atelier-web/internal/api"
	"craftfield.org/atelier-web/internal/checkout"
	mw "craftfield.org/atelier-web/internal/middleware"
	"craftfield.org/atelier-web/internal/platform/config"
	"craftfield.org/atelier-web/internal/platform/observability"
	"craftfield.org/atelier-web/internal/store"
)

func main() {
	var tmplPath, pubPath string
	flag.StringVar(&tmplPath, "templates", "templates", "templates directory")
	flag.StringVar(&pubPath, "public", "public", "public assets directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := observability.NewLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		logger.Fatal("open state store", zap.Error(err))
	}

	app, err := newApp(cfg, logger, st, tmplPath)
	if err != nil {
		logger.Fatal("init app", zap.Error(err))
	}
	app.publicDir = pubPath

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	logger.Info("web listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Bool("dev", cfg.Server.DevMode),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}
}

// newApp wires the shared collaborators. Per-browser state objects (session
// manager, cart manager, checkout controller) are constructed per request
// from the scope established by the middleware.
func newApp(cfg config.Config, logger *zap.Logger, st store.Store, tmplPath string) (*App, error) {
	client := api.NewClient(cfg.Backend.BaseURL,
		api.WithTokenSource(api.TokenSourceFunc(func(ctx context.Context) string {
			return mw.BearerToken(ctx)
		})),
	)

	if len(cfg.Site.PaymentMethods) > 0 {
		checkout.PaymentMethods = cfg.Site.PaymentMethods
	}

	app := &App{
		cfg:    cfg,
		logger: logger,
		store:  st,
		api:    client,
		scoper: mw.NewScoper(cfg.Session.SigningKey, cfg.Session.Secure),
		rates: checkout.Rates{
			FreeShippingOver: cfg.Site.FreeShippingOver,
			ShippingFee:      cfg.Site.ShippingFee,
			TaxRate:          cfg.Site.TaxRate,
		},
		templatesDir: tmplPath,
		publicDir:    "public",
		devMode:      cfg.Server.DevMode,
	}
	if !app.devMode {
		// Parse templates once in production
		tc, err := app.parseTemplates()
		if err != nil {
			return nil, err
		}
		app.tmplCache = tc
	}
	return app, nil
}

func (a *App) router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(a.scoper.Middleware)
	r.Use(mw.Identity(a.store))
	r.Use(mw.Logger(a.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(a.scoper.CSRF)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assets := http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(a.publicDir, "assets"))))
	r.Handle("/assets/*", assets)

	r.Get("/", a.HomeHandler)
	r.Get("/products", a.ProductsHandler)
	r.Post("/cart/add", a.CartAddHandler)
	r.Get("/cart", a.CartHandler)
	r.Post("/cart/update", a.CartUpdateHandler)
	r.Post("/cart/remove", a.CartRemoveHandler)
	r.Post("/cart/clear", a.CartClearHandler)

	r.Get("/checkout/shipping", a.ShippingHandler)
	r.Post("/checkout/shipping", a.ShippingSubmitHandler)
	r.Get("/checkout/payment", a.PaymentHandler)
	r.Post("/checkout/payment", a.PaymentSubmitHandler)
	r.Get("/checkout/placeorder", a.PlaceOrderHandler)
	r.Post("/checkout/placeorder", a.PlaceOrderSubmitHandler)

	r.Get("/orders", a.MyOrdersHandler)
	r.Get("/orders/{id}", a.OrderHandler)

	r.Get("/artisans", a.ArtisansHandler)

	r.Get("/login", a.LoginHandler)
	r.Post("/login", a.LoginSubmitHandler)
	r.Get("/register", a.RegisterHandler)
	r.Post("/register", a.RegisterSubmitHandler)
	r.Post("/logout", a.LogoutHandler)

	r.Get("/dashboard", a.DashboardHandler)
	r.Post("/dashboard/products", a.ProductCreateHandler)
	r.Post("/dashboard/products/{id}", a.ProductUpdateHandler)
	r.Post("/dashboard/products/{id}/delete", a.ProductDeleteHandler)

	r.Post("/theme", a.ThemeHandler)

	return r
}
