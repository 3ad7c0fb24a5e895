package main

import (
	"net/http"
	"strings"

	"craftfield.org/atelier-web/internal/api"
	mw "craftfield.org/atelier-web/internal/middleware"
	"craftfield.org/atelier-web/internal/platform/faults"
)

// AuthView is the view model for the login and register pages.
type AuthView struct {
	Redirect string
	Email    string
	Username string
	Role     string
	Company  string
}

// safeRedirect accepts only same-site paths as a post-login target.
func safeRedirect(raw string) string {
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return raw
	}
	return "/"
}

// LoginHandler renders the sign-in form.
func (a *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if mw.PrincipalFromContext(r.Context()) != nil {
		redirect(w, r, safeRedirect(r.URL.Query().Get("redirect")))
		return
	}
	vm := a.basePage(r, "Sign In")
	vm.Auth = AuthView{Redirect: safeRedirect(r.URL.Query().Get("redirect"))}
	a.renderPage(w, r, "login", vm)
}

// LoginSubmitHandler exchanges credentials for an identity.
func (a *App) LoginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	target := safeRedirect(r.FormValue("redirect"))
	sess, err := a.sessionManager(r)
	if err != nil {
		a.failPage(w, r, err, "/login")
		return
	}
	principal, err := sess.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		redirect(w, r, "/login?redirect="+target, "problem", faults.MessageOf(err))
		return
	}
	redirect(w, r, target, "notice", "welcome back, "+principal.Username)
}

// RegisterHandler renders the account creation form.
func (a *App) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if mw.PrincipalFromContext(r.Context()) != nil {
		redirect(w, r, "/")
		return
	}
	vm := a.basePage(r, "Create Account")
	vm.Auth = AuthView{
		Redirect: safeRedirect(r.URL.Query().Get("redirect")),
		Role:     api.RoleCustomer,
	}
	a.renderPage(w, r, "register", vm)
}

// RegisterSubmitHandler creates an account and signs the new principal in.
func (a *App) RegisterSubmitHandler(w http.ResponseWriter, r *http.Request) {
	target := safeRedirect(r.FormValue("redirect"))
	sess, err := a.sessionManager(r)
	if err != nil {
		a.failPage(w, r, err, "/register")
		return
	}
	req := api.RegisterRequest{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}
	if req.Role == "" {
		req.Role = api.RoleCustomer
	}
	if req.Role == api.RoleArtisan {
		req.ArtisanDetails = &api.ArtisanDetails{
			CompanyName: r.FormValue("company_name"),
			Description: r.FormValue("company_description"),
		}
	}
	principal, err := sess.Register(r.Context(), req)
	if err != nil {
		redirect(w, r, "/register?redirect="+target, "problem", faults.MessageOf(err))
		return
	}
	redirect(w, r, target, "notice", "welcome, "+principal.Username)
}

// LogoutHandler drops the held identity. It never touches the backend and
// never fails visibly.
func (a *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := a.sessionManager(r)
	if err == nil {
		_ = sess.Logout(r.Context())
	}
	redirect(w, r, "/", "notice", "signed out")
}
