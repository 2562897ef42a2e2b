package login

import (
	"net/http"

	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/session"
)

// LogoutHandler ends the session and clears the cookie.
func LogoutHandler(sessions *session.Manager, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err == nil && cookie.Value != "" {
			if sess, ok := sessions.Resolve(r.Context(), cookie.Value); ok {
				auditSvc.Record(r.Context(), sess, audit.Entry{Action: "logout", EntityType: "session", EntityID: sess.ID})
			}
			sessions.End(r.Context(), cookie.Value)
		}
		http.SetCookie(w, session.SessionCookie("", -1))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
