package aggregate

import (
	"github.com/shopspring/decimal"

	"cwsdash/infrastructure/viewmodel"
)

type FarmerSummary struct {
	viewmodel.Farmer
	TotalDeliveries int
	TotalWeight     float64
}

// FarmerTotals scans deliveries for one farmer. No index is kept; the
// collections are small.
func FarmerTotals(farmerID int64, deliveries []viewmodel.Delivery) (count int, weight float64) {
	sum := decimal.Zero
	for _, d := range deliveries {
		if d.FarmerID != farmerID {
			continue
		}
		count++
		sum = sum.Add(decimal.NewFromFloat(d.Weight))
	}
	weight, _ = sum.Float64()
	return count, weight
}

func FarmerSummaries(farmers []viewmodel.Farmer, deliveries []viewmodel.Delivery) []FarmerSummary {
	out := make([]FarmerSummary, 0, len(farmers))
	for _, f := range farmers {
		count, weight := FarmerTotals(f.ID, deliveries)
		out = append(out, FarmerSummary{Farmer: f, TotalDeliveries: count, TotalWeight: weight})
	}
	return out
}
