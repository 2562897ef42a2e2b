package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"cwsdash/infrastructure/viewmodel"
)

type FinancialInput struct {
	Deliveries []viewmodel.Delivery
	Expenses   []viewmodel.Expense
	Revenues   []viewmodel.Revenue
	Labor      []viewmodel.LaborLog
}

type FinancialSummary struct {
	Revenue         float64
	Expenses        float64
	Labor           float64
	CherryPurchases float64
	TotalCost       float64
	NetProfit       float64
	DeliveredKg     float64
	SoldKg          float64
	CostPerKg       float64
	// ProfitMargin is a percentage of revenue.
	ProfitMargin float64
}

// Financials sums the snapshot, optionally restricted to one season.
func Financials(in FinancialInput, seasonID *int64) FinancialSummary {
	revenue, soldKg := decimal.Zero, decimal.Zero
	for _, r := range in.Revenues {
		if inSeason(r.SeasonID, seasonID) {
			revenue = revenue.Add(decimal.NewFromFloat(r.Amount))
			soldKg = soldKg.Add(decimal.NewFromFloat(r.QuantityKg))
		}
	}
	expenses := decimal.Zero
	for _, e := range in.Expenses {
		if inSeason(e.SeasonID, seasonID) {
			expenses = expenses.Add(decimal.NewFromFloat(e.Amount))
		}
	}
	labor := decimal.Zero
	for _, l := range in.Labor {
		if inSeason(l.SeasonID, seasonID) {
			labor = labor.Add(decimal.NewFromFloat(l.Amount))
		}
	}
	cherry, deliveredKg := decimal.Zero, decimal.Zero
	for _, d := range in.Deliveries {
		if inSeason(d.SeasonID, seasonID) {
			cherry = cherry.Add(decimal.NewFromFloat(d.TotalAmount))
			deliveredKg = deliveredKg.Add(decimal.NewFromFloat(d.Weight))
		}
	}

	totalCost := expenses.Add(labor).Add(cherry)
	net := revenue.Sub(totalCost)

	s := FinancialSummary{
		Revenue:         toFloat(revenue),
		Expenses:        toFloat(expenses),
		Labor:           toFloat(labor),
		CherryPurchases: toFloat(cherry),
		TotalCost:       toFloat(totalCost),
		NetProfit:       toFloat(net),
		DeliveredKg:     toFloat(deliveredKg),
		SoldKg:          toFloat(soldKg),
	}
	if !deliveredKg.IsZero() {
		s.CostPerKg = toFloat(totalCost.Div(deliveredKg))
	}
	if !revenue.IsZero() {
		s.ProfitMargin = toFloat(net.Div(revenue).Mul(decimal.NewFromInt(100)))
	}
	return s
}

type SeasonRevenue struct {
	SeasonID   int64
	SeasonName string
	Revenue    float64
	QuantityKg float64
}

// RevenueBySeason groups revenue per season in season-list order; revenue
// without a known season is reported under ID 0.
func RevenueBySeason(revenues []viewmodel.Revenue, seasons []viewmodel.Season) []SeasonRevenue {
	type acc struct{ revenue, qty decimal.Decimal }
	totals := make(map[int64]*acc)
	for _, r := range revenues {
		var id int64
		if r.SeasonID != nil {
			id = *r.SeasonID
		}
		a, ok := totals[id]
		if !ok {
			a = &acc{revenue: decimal.Zero, qty: decimal.Zero}
			totals[id] = a
		}
		a.revenue = a.revenue.Add(decimal.NewFromFloat(r.Amount))
		a.qty = a.qty.Add(decimal.NewFromFloat(r.QuantityKg))
	}

	out := make([]SeasonRevenue, 0, len(seasons)+1)
	for _, s := range seasons {
		a, ok := totals[s.ID]
		if !ok {
			out = append(out, SeasonRevenue{SeasonID: s.ID, SeasonName: s.Name})
			continue
		}
		out = append(out, SeasonRevenue{SeasonID: s.ID, SeasonName: s.Name, Revenue: toFloat(a.revenue), QuantityKg: toFloat(a.qty)})
		delete(totals, s.ID)
	}
	unassigned := SeasonRevenue{SeasonName: "Unassigned"}
	hasUnassigned := false
	for _, a := range totals {
		hasUnassigned = true
		unassigned.Revenue += toFloat(a.revenue)
		unassigned.QuantityKg += toFloat(a.qty)
	}
	if hasUnassigned {
		out = append(out, unassigned)
	}
	return out
}

type CategoryTotal struct {
	Category string
	Amount   float64
}

// ExpensesByCategory orders categories by amount, largest first.
func ExpensesByCategory(expenses []viewmodel.Expense, seasonID *int64) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if !inSeason(e.SeasonID, seasonID) {
			continue
		}
		prev, ok := totals[e.Category]
		if !ok {
			prev = decimal.Zero
		}
		totals[e.Category] = prev.Add(decimal.NewFromFloat(e.Amount))
	}
	out := make([]CategoryTotal, 0, len(totals))
	for cat, amount := range totals {
		out = append(out, CategoryTotal{Category: cat, Amount: toFloat(amount)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
