package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cwsdash/infrastructure/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 5*time.Second, config.DiscardLogger())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestListUnwrapsDataEnvelopeAndSendsBearer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/deliveries" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected bearer header, got %q", got)
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":7,"farmer_id":3,"weight_kg":"125","unit_price":350,"total_amount":null}]}`)
	})

	rows, err := client.WithToken("tok-1").ListDeliveries(context.Background())
	if err != nil {
		t.Fatalf("list deliveries: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(rows))
	}
	if rows[0].WeightKg.Float64() != 125 || rows[0].UnitPrice.Float64() != 350 {
		t.Fatalf("unexpected numbers: %+v", rows[0])
	}
	if rows[0].TotalAmount.Valid {
		t.Fatalf("expected null total_amount to be invalid")
	}
}

func TestListNullDataYieldsEmptySlice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":null}`)
	})
	rows, err := client.WithToken("tok").ListFarmers(context.Background())
	if err != nil {
		t.Fatalf("list farmers: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", rows)
	}
}

func TestUnauthorizedRunsHookWithToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"jwt expired"}`)
	})
	var dropped string
	client.OnUnauthorized(func(token string) { dropped = token })

	_, err := client.WithToken("stale").ListLots(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if dropped != "stale" {
		t.Fatalf("expected hook to receive stale token, got %q", dropped)
	}
}

func TestLoginFailureDoesNotRunHook(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"invalid credentials"}`)
	})
	called := false
	client.OnUnauthorized(func(string) { called = true })

	_, err := client.Login(context.Background(), LoginInput{Email: "a@b.rw", Password: "x"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if called {
		t.Fatalf("hook must not run without a token")
	}
}

func TestValidationErrorCarriesBackendMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in DeliveryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if in.WeightKg != 125 {
			t.Errorf("expected weight 125 in body, got %v", in.WeightKg)
		}
		writeJSON(w, http.StatusUnprocessableEntity, `{"message":"farmer is inactive"}`)
	})

	_, err := client.WithToken("tok").CreateDelivery(context.Background(), DeliveryInput{FarmerID: 1, WeightKg: 125, UnitPrice: 350})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Message != "farmer is inactive" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if got := UserMessage(err, "fallback"); got != "farmer is inactive" {
		t.Fatalf("expected backend message, got %q", got)
	}
}

func TestUnexpectedShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"not":"a list"}}`)
	})
	_, err := client.WithToken("tok").ListSeasons(context.Background())
	if !errors.Is(err, ErrUnexpectedShape) {
		t.Fatalf("expected ErrUnexpectedShape, got %v", err)
	}
}

func TestTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, config.DiscardLogger())
	_, err := client.WithToken("tok").ListAssets(context.Background())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if got := UserMessage(err, "fallback"); got != "backend is unreachable, please try again" {
		t.Fatalf("unexpected user message %q", got)
	}
}

func TestAuditLogFiltersBecomeQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("user") != "alice" || q.Get("action") != "CREATE" || q.Get("table_name") != "lots" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, `{"data":[{"id":1,"record_id":42,"action":"CREATE"}]}`)
	})
	rows, err := client.WithToken("tok").ListAuditLogs(context.Background(), AuditFilter{User: "alice", Action: "CREATE", TableName: "lots"})
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	if len(rows) != 1 || rows[0].RecordID != "42" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestComplianceLogsByLot(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lot_id") != "9" {
			t.Errorf("expected lot_id=9, got %q", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, `{"data":[]}`)
	})
	lotID := int64(9)
	if _, err := client.WithToken("tok").ListComplianceLogs(context.Background(), &lotID); err != nil {
		t.Fatalf("list compliance logs: %v", err)
	}
}
