package html

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money formats a RWF amount with thousands separators and no decimals.
func Money(v float64) string {
	return group(decimal.NewFromFloat(v).StringFixed(0)) + " RWF"
}

// Kg formats a weight with two decimals.
func Kg(v float64) string {
	return group(decimal.NewFromFloat(v).StringFixed(2)) + " kg"
}

func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

func Number(v float64) string {
	return group(decimal.NewFromFloat(v).StringFixed(2))
}

func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := sign + b.String()
	if hasFrac {
		out += "." + frac
	}
	return out
}
