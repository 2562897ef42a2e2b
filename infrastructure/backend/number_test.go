package backend

import (
	"encoding/json"
	"testing"
)

func TestNumberDecoding(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		want  float64
		valid bool
	}{
		{name: "json number", raw: `125`, want: 125, valid: true},
		{name: "numeric string", raw: `"125.5"`, want: 125.5, valid: true},
		{name: "grouped string", raw: `"15,000,000"`, want: 15000000, valid: true},
		{name: "null", raw: `null`, want: 0, valid: false},
		{name: "empty string", raw: `""`, want: 0, valid: false},
		{name: "garbage", raw: `"abc"`, want: 0, valid: false},
		{name: "bool", raw: `true`, want: 0, valid: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var n Number
			if err := json.Unmarshal([]byte(tc.raw), &n); err != nil {
				t.Fatalf("unmarshal must not fail, got %v", err)
			}
			if n.Valid != tc.valid || n.Float64() != tc.want {
				t.Fatalf("got valid=%v value=%v", n.Valid, n.Float64())
			}
		})
	}
}

func TestNumberInsideRecordNeverFailsPayload(t *testing.T) {
	var d Delivery
	if err := json.Unmarshal([]byte(`{"id":1,"weight_kg":"n/a","unit_price":"350"}`), &d); err != nil {
		t.Fatalf("unmarshal delivery: %v", err)
	}
	if d.WeightKg.Float64() != 0 || d.UnitPrice.Float64() != 350 {
		t.Fatalf("unexpected delivery numbers %+v", d)
	}
}
