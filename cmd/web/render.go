package main

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"craftfield.org/atelier-web/internal/content"
	"craftfield.org/atelier-web/internal/format"
	"craftfield.org/atelier-web/internal/handlers"
	mw "craftfield.org/atelier-web/internal/middleware"
	"craftfield.org/atelier-web/internal/nav"
	"craftfield.org/atelier-web/internal/session"
)

func (a *App) parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now":      time.Now,
		"price":    format.Price,
		"date":     format.Date,
		"dateptr":  format.DatePtr,
		"markdown": content.RenderMarkdown,
	}
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(a.templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", a.templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

// renderPage executes the named page template inside the base layout. In dev
// mode, templates are reparsed on each request.
func (a *App) renderPage(w http.ResponseWriter, r *http.Request, page string, vm handlers.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t := a.tmplCache
	if a.devMode {
		tc, err := a.parseTemplates()
		if err != nil {
			http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
			return
		}
		t = tc
	}
	if t == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "page_"+page, vm); err != nil {
		a.logger.Error("template exec", zap.String("page", page), zap.Error(err))
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
	}
}

// basePage assembles the shared parts of the page view model: chrome,
// identity, cart badge, CSRF token, and any one-shot banners carried in the
// query string.
func (a *App) basePage(r *http.Request, title string) handlers.PageData {
	ctx := r.Context()
	scope := mw.ScopeID(ctx)
	principal := mw.PrincipalFromContext(ctx)

	cartCount := 0
	if crt, err := a.cartManager(r); err == nil {
		cartCount = crt.TotalItemCount()
	}

	vm := handlers.PageData{
		Title:       title,
		Site:        a.cfg.Site.Name,
		Path:        r.URL.Path,
		Theme:       session.Theme(ctx, a.store, scope),
		Nav:         nav.Build(r.URL.Path, principal != nil && principal.IsArtisan()),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Principal:   principal,
		CartCount:   cartCount,
		CSRFToken:   a.scoper.CSRFToken(scope),
		Notice:      r.URL.Query().Get("notice"),
		Problem:     r.URL.Query().Get("problem"),
	}
	return vm
}
