package http

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

// The cookie is readable by the page script, which copies it into a hidden
// _csrf field of every POST form.
const (
	csrfCookieName = "cws_csrf"
	csrfHeaderName = "X-CSRF-Token"
	csrfFormField  = "_csrf"
	csrfTokenBytes = 32
)

// CSRFMiddleware issues the double-submit cookie on first contact and
// rejects state-changing requests whose field or header does not match it.
func (s *Server) CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := csrfCookieToken(w, r)
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		got := strings.TrimSpace(r.Header.Get(csrfHeaderName))
		if got == "" {
			got = strings.TrimSpace(r.PostFormValue(csrfFormField))
		}
		if got == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			s.Logger.WithField("path", r.URL.Path).Warn("csrf token mismatch")
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func csrfCookieToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookieName); err == nil && len(c.Value) == 2*csrfTokenBytes {
		return c.Value
	}
	buf := make([]byte, csrfTokenBytes)
	_, _ = rand.Read(buf)
	token := hex.EncodeToString(buf)
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}
