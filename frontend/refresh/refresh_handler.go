package refresh

import (
	"net/http"
	"net/url"
	"strings"

	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/store"
)

// RefreshCommandHandler refetches one named collection, or the whole
// initial load when none is named, then returns to the page that asked.
func RefreshCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		back := backTo(r)
		collections := store.InitialLoad
		if raw := web.FormText(r, "collection"); raw != "" {
			c, ok := store.ParseCollection(raw)
			if !ok {
				web.RedirectError(w, r, back, "unknown collection "+raw)
				return
			}
			collections = []store.Collection{c}
		}
		s.Refresh(r.Context(), collections...)
		web.Redirect(w, r, back, "data refreshed")
	}
}

// backTo accepts only a same-site dashboard path from the form or the
// Referer header.
func backTo(r *http.Request) string {
	for _, raw := range []string{r.FormValue("return"), r.Referer()} {
		u, err := url.Parse(raw)
		if err != nil || raw == "" {
			continue
		}
		if u.Host != "" && u.Host != r.Host {
			continue
		}
		if strings.HasPrefix(u.Path, "/cws/") {
			return u.Path
		}
	}
	return "/cws/dashboard"
}
