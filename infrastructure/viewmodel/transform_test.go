package viewmodel

import (
	"encoding/json"
	"testing"

	"cwsdash/infrastructure/backend"
)

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return out
}

func TestFromDeliveryParsesWeight(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "numeric string", raw: `{"id":1,"weight_kg":"87.25"}`, want: 87.25},
		{name: "number", raw: `{"id":1,"weight_kg":40}`, want: 40},
		{name: "missing", raw: `{"id":1}`, want: 0},
		{name: "non numeric", raw: `{"id":1,"weight_kg":"heavy"}`, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromDelivery(decode[backend.Delivery](t, tc.raw))
			if got.Weight != tc.want {
				t.Fatalf("expected weight %v, got %v", tc.want, got.Weight)
			}
		})
	}
}

func TestFromDeliveryTotalAmountFromWeightAndPrice(t *testing.T) {
	got := FromDelivery(decode[backend.Delivery](t, `{"id":3,"farmer_id":2,"weight_kg":125,"unit_price":350}`))
	if got.TotalAmount != 43750 {
		t.Fatalf("expected total 43750, got %v", got.TotalAmount)
	}
}

func TestFromDeliveryKeepsBackendTotal(t *testing.T) {
	got := FromDelivery(decode[backend.Delivery](t, `{"id":3,"weight_kg":125,"unit_price":350,"total_amount":"43000"}`))
	if got.TotalAmount != 43000 {
		t.Fatalf("expected backend total 43000, got %v", got.TotalAmount)
	}
}

func TestFromDeliveryDefaults(t *testing.T) {
	got := FromDelivery(decode[backend.Delivery](t, `{"id":3,"farmer":null,"payment_status":"PAID","delivery_date":"2025-04-25T07:05:00Z"}`))
	if got.FarmerName != "" {
		t.Fatalf("expected empty farmer name, got %q", got.FarmerName)
	}
	if got.PaymentStatus != "paid" {
		t.Fatalf("expected lower-cased status, got %q", got.PaymentStatus)
	}
	// 07:05 UTC is 09:05 in Kigali.
	if got.Time != "09:05" {
		t.Fatalf("expected 09:05, got %q", got.Time)
	}
	if got.Date != "2025-04-25" {
		t.Fatalf("expected date 2025-04-25, got %q", got.Date)
	}

	pending := FromDelivery(decode[backend.Delivery](t, `{"id":4,"farmer":{"id":1,"name":"Uwase"}}`))
	if pending.PaymentStatus != "pending" || pending.FarmerName != "Uwase" {
		t.Fatalf("unexpected defaults %+v", pending)
	}
	if pending.Time != "" {
		t.Fatalf("expected empty time without date, got %q", pending.Time)
	}
}

func TestFromFarmerFlattensLocation(t *testing.T) {
	got := FromFarmer(decode[backend.Farmer](t, `{"id":5,"name":"Mukamana","location":{"sector":"Huye","cell":null,"village":"Rango"}}`))
	if got.Sector != "Huye" || got.Cell != "" || got.Village != "Rango" || got.FarmType != "" {
		t.Fatalf("unexpected location flattening %+v", got)
	}
	if got.Active != nil {
		t.Fatalf("expected active to stay unset")
	}

	inactive := FromFarmer(decode[backend.Farmer](t, `{"id":6,"active":false}`))
	if inactive.Active == nil || *inactive.Active {
		t.Fatalf("expected explicit false active flag")
	}
	if inactive.Sector != "" {
		t.Fatalf("expected empty sector without location")
	}
}

func TestFromLotStatusDisplay(t *testing.T) {
	got := FromLot(decode[backend.Lot](t, `{"id":1,"lot_name":"L-001","status":"IN_PROCESS"}`))
	if got.Status != "in process" || got.StatusCode != "in_process" {
		t.Fatalf("unexpected status %q/%q", got.Status, got.StatusCode)
	}
	if got.TotalWeight != 0 || got.Timeline != nil {
		t.Fatalf("transform must not compute weight or timeline")
	}
}

func TestFromLaborLogWorkerDefault(t *testing.T) {
	got := FromLaborLog(decode[backend.LaborLog](t, `{"id":1,"days":"3","daily_rate":1500}`))
	if got.WorkerName != "N/A" {
		t.Fatalf("expected N/A worker, got %q", got.WorkerName)
	}
	if got.Amount != 4500 {
		t.Fatalf("expected derived amount 4500, got %v", got.Amount)
	}
}

func TestFromAuditLogSplitsTimestamp(t *testing.T) {
	got := FromAuditLog(decode[backend.AuditLog](t, `{"id":1,"user":{"name":"Alice","role":"admin"},"action":"create","table_name":"lots","record_id":12,"created_at":"2025-04-25T22:30:00Z"}`))
	if got.Date != "2025-04-26" || got.Time != "00:30" {
		t.Fatalf("expected local date/time, got %s %s", got.Date, got.Time)
	}
	if got.Action != "CREATE" || got.Entity != "lots" || got.EntityID != "12" || got.Name != "Alice" {
		t.Fatalf("unexpected audit entry %+v", got)
	}
}

func TestComplianceChecksOfType(t *testing.T) {
	rows := decode[[]backend.ComplianceLog](t, `[{"id":1,"type":"cpqi","score":90},{"id":2,"type":"CPSI","score":"50"},{"id":3}]`)
	quality := ComplianceChecksOfType(rows, TypeCPQI)
	if len(quality) != 1 || quality[0].ID != 1 {
		t.Fatalf("unexpected quality checks %+v", quality)
	}
	sustainability := ComplianceChecksOfType(rows, TypeCPSI)
	if len(sustainability) != 1 || sustainability[0].Score != 50 {
		t.Fatalf("unexpected sustainability checks %+v", sustainability)
	}
}
