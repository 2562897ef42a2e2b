package login

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cwsdash/frontend/shared/validate"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/session"
)

// CreateLoginHandler exchanges the credentials for a backend token and
// issues the dashboard session cookie.
func CreateLoginHandler(client *backend.Client, sessions *session.Manager, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, "/login", "invalid form data")
			return
		}

		in := backend.LoginInput{
			Email:    strings.ToLower(web.FormText(r, "email")),
			Password: strings.TrimSpace(r.FormValue("password")),
		}
		if in.Email == "" || in.Password == "" {
			web.RedirectError(w, r, "/login", "email and password are required")
			return
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, "/login", err.Error())
			return
		}

		res, err := client.Login(r.Context(), in)
		if err != nil {
			web.RedirectError(w, r, "/login", loginFailure(err))
			return
		}

		sess, err := sessions.Open(r.Context(), res)
		if err != nil {
			web.RedirectError(w, r, "/login", "failed to create session")
			return
		}
		sessions.Store(sess)
		auditSvc.Record(r.Context(), sess, audit.Entry{Action: "login", EntityType: "session", EntityID: sess.ID})

		http.SetCookie(w, session.SessionCookie(sess.ID, session.MaxAge(sess.ExpiresAt, time.Now())))
		http.Redirect(w, r, "/cws/dashboard", http.StatusSeeOther)
	}
}

func loginFailure(err error) string {
	var apiErr *backend.APIError
	if errors.Is(err, backend.ErrUnauthorized) {
		return "invalid email or password"
	}
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return backend.UserMessage(err, "invalid email or password")
	}
	return backend.UserMessage(err, "authentication failed")
}
