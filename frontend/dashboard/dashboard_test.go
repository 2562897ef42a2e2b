package dashboard

import (
	"net/http"
	"strings"
	"testing"

	"cwsdash/frontend/shared/webtest"
)

func TestDashboardOverview(t *testing.T) {
	b := webtest.NewBackend(t)
	b.Set("/seasons", `[{"id":1,"name":"2025A","active":true}]`)
	b.Set("/farmers", `[{"id":3,"name":"Jean Bosco","active":true},{"id":4,"name":"Alice","active":false}]`)
	b.Set("/deliveries", `[
	 {"id":1,"farmer_id":3,"farmer":{"id":3,"name":"Jean Bosco"},"season_id":1,"lot_id":1,"delivery_date":"2025-04-25T08:30:00Z","weight_kg":"125","unit_price":"350","payment_status":"pending"},
	 {"id":2,"farmer_id":3,"farmer":{"id":3,"name":"Jean Bosco"},"season_id":1,"delivery_date":"2025-04-26T08:30:00Z","weight_kg":"75","unit_price":"350","payment_status":"paid"}
	]`)
	b.Set("/lots", `[{"id":1,"lot_name":"LOT-A","processing_method":"washed","status":"in_process"},{"id":2,"lot_name":"LOT-B","status":"completed"}]`)
	b.Set("/processing-logs", `[{"id":1,"lot_id":1,"stage":"received","logged_at":"2025-04-25T09:00:00Z"}]`)
	b.Set("/storage", `[{"id":1,"lot_id":2,"bag_code":"BAG-1","stored_date":"2025-04-01"}]`)
	session := webtest.Session("admin")
	s := b.Store(t, session)

	rec := webtest.Serve(DashboardPageQueryHandler(), webtest.Request(http.MethodGet, "/cws/dashboard", nil, session, s))
	body := rec.Body.String()
	for _, want := range []string{"2025A", "1 / 2", "200.00 kg", "1 (43,750 RWF)", `href="/cws/lots/1"`, "<td>received</td>", "<td>125.00 kg</td>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in dashboard", want)
		}
	}
	if strings.Contains(body, "LOT-B") {
		t.Fatalf("completed lots are not open")
	}
	if strings.Index(body, "2025-04-26") > strings.Index(body, "2025-04-25") {
		t.Fatalf("expected newest delivery first")
	}
}

func TestDashboardEmptyBackend(t *testing.T) {
	b := webtest.NewBackend(t)
	session := webtest.Session("operator")
	s := b.Store(t, session)

	rec := webtest.Serve(DashboardPageQueryHandler(), webtest.Request(http.MethodGet, "/cws/dashboard", nil, session, s))
	body := rec.Body.String()
	for _, want := range []string{"No season", "No deliveries recorded yet.", "No lots in progress."} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in dashboard", want)
		}
	}
}
