package lots

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"cwsdash/frontend/shared/webtest"
	"cwsdash/infrastructure/config"
)

const lotsJSON = `[
 {"id":1,"lot_name":"LOT-A","processing_method":"washed","status":"created"},
 {"id":2,"lot_name":"LOT-B","processing_method":"natural","status":"in_process"},
 {"id":3,"lot_name":"LOT-C","processing_method":"honey","status":"completed"}
]`

const logsJSON = `[
 {"id":1,"lot_id":2,"stage":"pulped","logged_at":"2025-04-26T09:00:00Z"},
 {"id":2,"lot_id":2,"stage":"received","logged_at":"2025-04-25T09:00:00Z"}
]`

const lotDeliveriesJSON = `[
 {"id":1,"farmer_id":1,"lot_id":2,"weight_kg":"100","unit_price":"350"},
 {"id":2,"farmer_id":1,"lot_id":2,"weight_kg":"50.5","unit_price":"350"}
]`

func lotsBackend(t *testing.T) *webtest.Backend {
	b := webtest.NewBackend(t)
	b.Set("/lots", lotsJSON)
	b.Set("/processing-logs", logsJSON)
	b.Set("/deliveries", lotDeliveriesJSON)
	b.Set("/compliance-logs", `[{"id":5,"lot_id":2,"type":"cpqi","defects_count":1,"score":"95","status":"compliant","created_at":"2025-04-27T08:00:00Z"}]`)
	return b
}

func TestLotDetailShowsTimelineAndTransitions(t *testing.T) {
	b := lotsBackend(t)
	session := webtest.Session("operator")
	s := b.Store(t, session)

	rec := webtest.Serve(LotDetailPageQueryHandler(b.Client, config.DiscardLogger()), webtest.Request(http.MethodGet, "/cws/lots/2", nil, session, s, "id", "2"))
	body := rec.Body.String()
	received := strings.Index(body, "badge-received")
	pulped := strings.Index(body, "badge-pulped")
	if received < 0 || pulped < 0 || received > pulped {
		t.Fatalf("expected received before pulped in timeline")
	}
	for _, want := range []string{"150.50 kg", "Log fermented", "Mark completed", "Mark cancelled", "<td>CPQI</td>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in detail page", want)
		}
	}
	if strings.Contains(body, "Mark in process") {
		t.Fatalf("in-process lot must not offer its own status")
	}
	calls := b.Calls(http.MethodGet, "/compliance-logs")
	if len(calls) == 0 || calls[len(calls)-1].Query.Get("lot_id") != "2" {
		t.Fatalf("expected compliance logs scoped to the lot, got %+v", calls)
	}
}

func TestLotDetailUnknownLot(t *testing.T) {
	b := lotsBackend(t)
	session := webtest.Session("operator")
	s := b.Store(t, session)

	rec := webtest.Serve(LotDetailPageQueryHandler(b.Client, config.DiscardLogger()), webtest.Request(http.MethodGet, "/cws/lots/99", nil, session, s, "id", "99"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateLotStatusNeverMovesBack(t *testing.T) {
	b := lotsBackend(t)
	session := webtest.Session("operator")
	s := b.Store(t, session)
	h := UpdateLotStatusCommandHandler(b.Client, webtest.Audit(t))

	cases := []struct {
		lot, status string
		ok          bool
	}{
		{"2", "created", false},
		{"3", "cancelled", false},
		{"1", "in_process", true},
		{"2", "completed", true},
	}
	for _, tc := range cases {
		form := url.Values{"status": {tc.status}}
		rec := webtest.Serve(h, webtest.Request(http.MethodPost, "/cws/lots/"+tc.lot+"/status", form, session, s, "id", tc.lot))
		status, errMsg := webtest.Flash(rec)
		if tc.ok && status != "lot status updated" {
			t.Fatalf("lot %s -> %s: expected success, got %q", tc.lot, tc.status, errMsg)
		}
		if !tc.ok && errMsg == "" {
			t.Fatalf("lot %s -> %s: expected rejection", tc.lot, tc.status)
		}
	}
	if got := len(b.Calls(http.MethodPut, "/lots/2")); got != 1 {
		t.Fatalf("expected one accepted update for lot 2, got %d", got)
	}
}

func TestLogStageEnforcesOrder(t *testing.T) {
	b := lotsBackend(t)
	session := webtest.Session("operator")
	s := b.Store(t, session)
	h := LogStageCommandHandler(b.Client, webtest.Audit(t))

	rec := webtest.Serve(h, webtest.Request(http.MethodPost, "/cws/lots/2/stages", url.Values{"stage": {"dried"}}, session, s, "id", "2"))
	if _, errMsg := webtest.Flash(rec); errMsg != "next stage must be fermented" {
		t.Fatalf("unexpected error %q", errMsg)
	}

	rec = webtest.Serve(h, webtest.Request(http.MethodPost, "/cws/lots/2/stages", url.Values{"stage": {"fermented"}}, session, s, "id", "2"))
	if status, errMsg := webtest.Flash(rec); status != "fermented logged" {
		t.Fatalf("expected success, got %q", errMsg)
	}
	if len(b.Calls(http.MethodPut, "/lots/2")) != 0 {
		t.Fatalf("an in-process lot keeps its status")
	}
}

func TestLogFirstStageStartsProcessing(t *testing.T) {
	b := lotsBackend(t)
	session := webtest.Session("operator")
	s := b.Store(t, session)
	h := LogStageCommandHandler(b.Client, webtest.Audit(t))

	rec := webtest.Serve(h, webtest.Request(http.MethodPost, "/cws/lots/1/stages", url.Values{"stage": {"received"}}, session, s, "id", "1"))
	if status, errMsg := webtest.Flash(rec); status != "received logged" {
		t.Fatalf("expected success, got %q", errMsg)
	}
	calls := b.Calls(http.MethodPut, "/lots/1")
	if len(calls) != 1 || calls[0].Body["status"] != "in_process" {
		t.Fatalf("expected lot to move in process, got %+v", calls)
	}
}

func TestLogStageRejectsFinishedLot(t *testing.T) {
	b := lotsBackend(t)
	session := webtest.Session("operator")
	s := b.Store(t, session)
	h := LogStageCommandHandler(b.Client, webtest.Audit(t))

	rec := webtest.Serve(h, webtest.Request(http.MethodPost, "/cws/lots/3/stages", url.Values{"stage": {"received"}}, session, s, "id", "3"))
	if _, errMsg := webtest.Flash(rec); errMsg != "lot is completed and cannot be processed further" {
		t.Fatalf("unexpected error %q", errMsg)
	}
}

func TestCreateLotValidatesMethod(t *testing.T) {
	b := lotsBackend(t)
	session := webtest.Session("admin")
	s := b.Store(t, session)
	h := CreateLotCommandHandler(b.Client, webtest.Audit(t))

	rec := webtest.Serve(h, webtest.Request(http.MethodPost, "/cws/lots", url.Values{"lot_name": {"LOT-D"}, "processing_method": {"fermented"}}, session, s))
	if _, errMsg := webtest.Flash(rec); errMsg != "processing method must be one of: washed, natural, honey" {
		t.Fatalf("unexpected error %q", errMsg)
	}
	rec = webtest.Serve(h, webtest.Request(http.MethodPost, "/cws/lots", url.Values{"lot_name": {"LOT-D"}, "processing_method": {"Washed"}}, session, s))
	if status, _ := webtest.Flash(rec); status != "lot created" {
		t.Fatalf("expected lot created")
	}
}
