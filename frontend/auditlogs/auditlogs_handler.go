package auditlogs

import (
	"net/http"
	"strings"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/backend"
)

// AuditLogsPageQueryHandler shows the backend audit trail. The user, action
// and table_name query parameters are passed through as filters; every
// visit refetches so a filter change is never served from the old result.
func AuditLogsPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		q := r.URL.Query()
		filter := backend.AuditFilter{
			User:      strings.TrimSpace(q.Get("user")),
			Action:    strings.TrimSpace(q.Get("action")),
			TableName: strings.TrimSpace(q.Get("table_name")),
		}
		s.FetchAuditLogs(r.Context(), filter)
		page := web.Page(r, session, "Audit Logs", nav.ScreenAuditLogs)
		web.Render(w, r, AuditLogsPage(page, filter, s.AuditLogs()), "audit logs page")
	}
}
