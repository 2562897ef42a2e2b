package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/webtest"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/config"
	"cwsdash/infrastructure/store"
)

func TestProfileShowsRecentActivity(t *testing.T) {
	b := webtest.NewBackend(t)
	b.Set("/auth/me", `{"id":1,"name":"Aline Mukamana","email":"finance@cws.rw","role":"finance","active":true}`)
	session := webtest.Session("finance")
	session.ScreenPermissions = map[string]int{nav.ScreenFinance: 1, nav.ScreenProfile: 1}
	s := b.Store(t, session, store.Seasons)
	auditSvc := webtest.Audit(t)

	ctx := context.Background()
	auditSvc.Record(ctx, session, audit.Entry{Action: "create", EntityType: "expense", EntityID: "7"})
	auditSvc.Record(ctx, session, audit.Entry{Action: "export_statement", EntityType: "statement", EntityID: "1", Err: errors.New("boom")})

	rec := webtest.Serve(ProfilePageQueryHandler(b.Client, auditSvc, config.DiscardLogger()), webtest.Request(http.MethodGet, "/cws/profile", nil, session, s))
	body := rec.Body.String()
	for _, want := range []string{"Aline Mukamana", "finance@cws.rw", "<td>expense</td>", "<td>export_statement</td>", `href="/cws/finance"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in profile page", want)
		}
	}
	if strings.Index(body, "export_statement") > strings.Index(body, "<td>expense</td>") {
		t.Fatalf("expected newest activity first")
	}
	if calls := b.Calls(http.MethodGet, "/auth/me"); len(calls) != 1 {
		t.Fatalf("expected one /auth/me call, got %d", len(calls))
	}
}

func TestProfileFallsBackToSessionWhenBackendFails(t *testing.T) {
	b := webtest.NewBackend(t)
	b.Fail(http.MethodGet, "/auth/me", http.StatusBadGateway)
	session := webtest.Session("operator")
	s := b.Store(t, session, store.Seasons)

	rec := webtest.Serve(ProfilePageQueryHandler(b.Client, webtest.Audit(t), config.DiscardLogger()), webtest.Request(http.MethodGet, "/cws/profile", nil, session, s))
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, "Test operator") || !strings.Contains(body, "Could not reach the backend") {
		t.Fatalf("expected session details with a notice, got %d", rec.Code)
	}
}
