package dashboard

import (
	"strconv"

	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/viewmodel"
)

type Overview struct {
	Loading bool
	Season  string
	Farmers int
	// ActiveFarmers counts farmers not marked inactive.
	ActiveFarmers   int
	Finance         aggregate.FinancialSummary
	PendingPayments int
	PendingAmount   float64
	InQueue         int
	AllLots         int
	OpenLots        []viewmodel.Lot
	Recent          []viewmodel.Delivery
}

func DashboardPage(page html.Page, o Overview) templ.Component {
	season := o.Season
	if season == "" {
		season = "No season"
	}
	recent := make([][]templ.Component, 0, len(o.Recent))
	for _, d := range o.Recent {
		recent = append(recent, []templ.Component{
			html.Text(d.Date + " " + d.Time), html.Text(d.FarmerName), html.Text(html.Kg(d.Weight)),
			html.Text(html.Money(d.TotalAmount)), html.Badge(d.PaymentStatus),
		})
	}
	lots := make([][]templ.Component, 0, len(o.OpenLots))
	for _, l := range o.OpenLots {
		stage := "-"
		if n := len(l.Timeline); n > 0 {
			stage = l.Timeline[n-1].Stage
		}
		lots = append(lots, []templ.Component{
			html.Link("/cws/lots/"+strconv.FormatInt(l.ID, 10), l.LotName), html.Badge(l.Status),
			html.Text(stage), html.Text(html.Kg(l.TotalWeight)),
		})
	}

	return html.Layout(page,
		html.Stats(
			html.Stat{Label: "Season", Value: season},
			html.Stat{Label: "Active farmers", Value: strconv.Itoa(o.ActiveFarmers) + " / " + strconv.Itoa(o.Farmers)},
			html.Stat{Label: "Cherry received", Value: html.Kg(o.Finance.DeliveredKg)},
			html.Stat{Label: "Net profit", Value: html.Money(o.Finance.NetProfit)},
			html.Stat{Label: "Pending payments", Value: strconv.Itoa(o.PendingPayments) + " (" + html.Money(o.PendingAmount) + ")"},
			html.Stat{Label: "Bags in storage", Value: strconv.Itoa(o.InQueue)},
			html.Stat{Label: "Lots", Value: strconv.Itoa(o.AllLots)},
		),
		html.Section("Recent deliveries", html.State(o.Loading, len(o.Recent), html.Table(
			[]string{"Delivered", "Farmer", "Weight", "Total", "Payment"}, recent, "No deliveries recorded yet.",
		))),
		html.Section("Open lots", html.Table(
			[]string{"Lot", "Status", "Last stage", "Cherry"}, lots, "No lots in progress.",
		)),
	)
}
