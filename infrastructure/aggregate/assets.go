package aggregate

import (
	"time"

	"cwsdash/infrastructure/viewmodel"
)

const yearLength = 365 * 24 * time.Hour

// CurrentValue applies straight-line depreciation. A missing or future
// purchase date, or a non-positive lifespan, leaves the value untouched.
func CurrentValue(purchaseValue float64, purchaseDate time.Time, lifespanYears float64, now time.Time) float64 {
	if purchaseDate.IsZero() || lifespanYears <= 0 || purchaseDate.After(now) {
		return purchaseValue
	}
	years := float64(now.Sub(purchaseDate)) / float64(yearLength)
	fraction := years / lifespanYears
	if fraction > 1 {
		fraction = 1
	}
	if fraction < 0 {
		fraction = 0
	}
	return purchaseValue * (1 - fraction)
}

func DepreciateAssets(assets []viewmodel.Asset, now time.Time) []viewmodel.Asset {
	out := make([]viewmodel.Asset, 0, len(assets))
	for _, a := range assets {
		a.CurrentValue = CurrentValue(a.PurchaseValue, a.PurchaseDate, a.LifespanYears, now)
		out = append(out, a)
	}
	return out
}

type AssetTotals struct {
	PurchaseValue float64
	CurrentValue  float64
	Depreciation  float64
}

func SumAssets(assets []viewmodel.Asset) AssetTotals {
	var t AssetTotals
	for _, a := range assets {
		t.PurchaseValue += a.PurchaseValue
		t.CurrentValue += a.CurrentValue
	}
	t.Depreciation = t.PurchaseValue - t.CurrentValue
	return t
}
