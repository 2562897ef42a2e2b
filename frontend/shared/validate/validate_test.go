package validate

import (
	"testing"

	"cwsdash/infrastructure/backend"
)

func TestStructMessages(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{
			name: "missing farmer",
			in:   backend.DeliveryInput{DeliveryDate: "2025-04-25", WeightKg: 1, UnitPrice: 1, PaymentStatus: "pending"},
			want: "farmer id is required",
		},
		{
			name: "zero weight",
			in:   backend.DeliveryInput{FarmerID: 1, DeliveryDate: "2025-04-25", UnitPrice: 1, PaymentStatus: "pending"},
			want: "weight kg must be greater than 0",
		},
		{
			name: "bad status",
			in:   backend.LotStatusUpdate{Status: "shipped"},
			want: "status must be one of: created, in_process, completed, cancelled",
		},
		{
			name: "bad email",
			in:   backend.LoginInput{Email: "admin", Password: "x"},
			want: "email must be a valid email address",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			if err == nil || err.Error() != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}

	ok := backend.DeliveryInput{FarmerID: 1, DeliveryDate: "2025-04-25", WeightKg: 125, UnitPrice: 350, PaymentStatus: "paid"}
	if err := Struct(ok); err != nil {
		t.Fatalf("expected valid delivery, got %v", err)
	}
}

func TestPhone(t *testing.T) {
	got, err := Phone("0788 123 456", "RW")
	if err != nil {
		t.Fatalf("expected valid phone: %v", err)
	}
	if got != "+250788123456" {
		t.Fatalf("expected E.164, got %s", got)
	}
	if _, err := Phone("12", "RW"); err == nil {
		t.Fatalf("expected invalid phone")
	}
	if _, err := Phone("not a phone", "RW"); err == nil {
		t.Fatalf("expected parse failure")
	}
}
