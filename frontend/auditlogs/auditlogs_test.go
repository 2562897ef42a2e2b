package auditlogs

import (
	"net/http"
	"strings"
	"testing"

	"cwsdash/frontend/shared/webtest"
	"cwsdash/infrastructure/store"
)

func TestAuditLogsPassesFilters(t *testing.T) {
	b := webtest.NewBackend(t)
	b.Set("/audit-logs", `[{"id":9,"user":{"id":1,"name":"Aline","role":"finance"},"action":"update","table_name":"deliveries","record_id":42,"created_at":"2025-04-25T08:30:00Z"}]`)
	session := webtest.Session("admin")
	s := b.Store(t, session, store.Seasons)

	rec := webtest.Serve(AuditLogsPageQueryHandler(),
		webtest.Request(http.MethodGet, "/cws/audit-logs?user=Aline&action=UPDATE&table_name=deliveries", nil, session, s))
	body := rec.Body.String()
	for _, want := range []string{"<td>Aline</td>", "badge-update", "<td>42</td>", "<td>10:30</td>", `value="Aline"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in audit page", want)
		}
	}
	calls := b.Calls(http.MethodGet, "/audit-logs")
	if len(calls) == 0 {
		t.Fatalf("expected an audit fetch")
	}
	q := calls[len(calls)-1].Query
	if q.Get("user") != "Aline" || q.Get("action") != "UPDATE" || q.Get("table_name") != "deliveries" {
		t.Fatalf("unexpected query %v", q)
	}
	if got := s.AuditFilter(); got.User != "Aline" {
		t.Fatalf("expected store to remember filter, got %+v", got)
	}
}
