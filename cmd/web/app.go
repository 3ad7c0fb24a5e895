package main

import (
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"craftfield.org/atelier-web/internal/api"
	"craftfield.org/atelier-web/internal/cart"
	"craftfield.org/atelier-web/internal/checkout"
	mw "craftfield.org/atelier-web/internal/middleware"
	"craftfield.org/atelier-web/internal/platform/config"
	"craftfield.org/atelier-web/internal/platform/faults"
	"craftfield.org/atelier-web/internal/session"
	"craftfield.org/atelier-web/internal/store"
)

// App holds the process-wide collaborators shared by every request.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	store  store.Store
	api    *api.Client
	scoper *mw.Scoper
	rates  checkout.Rates

	templatesDir string
	publicDir    string
	devMode      bool
	tmplCache    *template.Template
}

// sessionManager builds the identity manager for the request's scope.
func (a *App) sessionManager(r *http.Request) (*session.Manager, error) {
	return session.NewManager(r.Context(), a.store, a.api, mw.ScopeID(r.Context()))
}

// cartManager restores the cart for the request's scope.
func (a *App) cartManager(r *http.Request) (*cart.Manager, error) {
	return cart.NewManager(r.Context(), a.store, mw.ScopeID(r.Context()))
}

// checkoutController restores the checkout flow for the request's scope.
func (a *App) checkoutController(r *http.Request) (*checkout.Controller, error) {
	sess, err := a.sessionManager(r)
	if err != nil {
		return nil, err
	}
	crt, err := a.cartManager(r)
	if err != nil {
		return nil, err
	}
	return checkout.NewController(r.Context(), mw.ScopeID(r.Context()), checkout.Deps{
		Store:   a.store,
		Cart:    crt,
		Session: sess,
		Orders:  a.api,
		Rates:   a.rates,
	})
}

// redirect issues a see-other redirect carrying an optional one-shot banner.
func redirect(w http.ResponseWriter, r *http.Request, target string, banners ...string) {
	if len(banners) > 0 {
		u, err := url.Parse(target)
		if err == nil {
			q := u.Query()
			for i := 0; i+1 < len(banners); i += 2 {
				if banners[i+1] != "" {
					q.Set(banners[i], banners[i+1])
				}
			}
			u.RawQuery = q.Encode()
			target = u.String()
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// loginRedirect sends the buyer to authentication and resumes at resume.
func loginRedirect(w http.ResponseWriter, r *http.Request, resume, problem string) {
	target := "/login?redirect=" + url.QueryEscape(resume)
	if problem != "" {
		target += "&problem=" + url.QueryEscape(problem)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// failPage maps a classified error onto the storefront's failure policy:
// auth faults force re-authentication, everything else lands back on
// fallback with the message as a banner. Nothing here is fatal.
func (a *App) failPage(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	a.logger.Warn("operation failed",
		zap.String("path", r.URL.Path),
		zap.String("kind", faults.KindOf(err).String()),
		zap.Error(err),
	)
	if faults.KindOf(err) == faults.KindAuth {
		loginRedirect(w, r, r.URL.Path, faults.MessageOf(err))
		return
	}
	redirect(w, r, fallback, "problem", faults.MessageOf(err))
}
