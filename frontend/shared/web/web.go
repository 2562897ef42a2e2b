package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	sessioncontext "cwsdash/frontend/shared/context"
	"cwsdash/frontend/shared/html"
	"cwsdash/frontend/shared/nav"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/store"
	"cwsdash/models"
)

// Redirect sends the browser back to path with a ?status= banner.
func Redirect(w http.ResponseWriter, r *http.Request, path, status string) {
	target := path
	if status != "" {
		target += sep(path) + "status=" + url.QueryEscape(status)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RedirectError sends the browser back to path with a ?error= banner.
func RedirectError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+sep(path)+"error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func sep(path string) string {
	if strings.Contains(path, "?") {
		return "&"
	}
	return "?"
}

func Render(w http.ResponseWriter, r *http.Request, c templ.Component, what string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render "+what, http.StatusInternalServerError)
	}
}

// Require returns the session and its store placed on the context by the
// auth middleware.
func Require(w http.ResponseWriter, r *http.Request) (models.Session, *store.Store, bool) {
	session, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return models.Session{}, nil, false
	}
	s, ok := sessioncontext.GetStoreFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return models.Session{}, nil, false
	}
	return session, s, true
}

// API returns backend accessors bound to the session's token.
func API(client *backend.Client, session models.Session) *backend.API {
	return client.WithToken(session.BackendToken)
}

func URLID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FormFloat parses a form number; commas are accepted, anything else is 0.
func FormFloat(r *http.Request, name string) float64 {
	return backend.ParseNumber(r.FormValue(name)).Float64()
}

// FormID parses a positive id; blank or invalid yields nil.
func FormID(r *http.Request, name string) *int64 {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func FormText(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

func FormBool(r *http.Request, name string) bool {
	switch strings.ToLower(FormText(r, name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Page builds the shell description of an authenticated screen. watch
// names the collections whose background refresh reloads the page.
func Page(r *http.Request, session models.Session, title, screen string, watch ...store.Collection) html.Page {
	names := make([]string, len(watch))
	for i, c := range watch {
		names[i] = string(c)
	}
	return html.Page{
		Title: title,
		Nav:   nav.BuildTopNavData(session, screen),
		Flash: html.FlashFromRequest(r),
		Watch: names,
	}
}
