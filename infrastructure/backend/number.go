package backend

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a wire numeric that may arrive as a JSON number, a numeric
// string, null, or garbage. Anything unparseable decodes to an invalid
// Number instead of failing the whole payload.
type Number struct {
	Value decimal.Decimal
	Valid bool
}

func NewNumber(f float64) Number {
	return Number{Value: decimal.NewFromFloat(f), Valid: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		*n = Number{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = Number{}
			return nil
		}
		raw = s
	}
	*n = ParseNumber(raw)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(n.Value.String()), nil
}

// ParseNumber accepts user formatted values such as "1,250.5" or " 350 ".
func ParseNumber(raw string) Number {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return Number{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}
	}
	return Number{Value: d, Valid: true}
}

// Float64 returns the value, or 0 when the wire value was missing or invalid.
func (n Number) Float64() float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Value.Float64()
	return f
}

// Decimal returns the value, or zero when the wire value was missing or invalid.
func (n Number) Decimal() decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Value
}

// FlexID is an identifier the backend sends either as a number or a string.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(strings.TrimSpace(s))
		return nil
	}
	*id = FlexID(raw)
	return nil
}
