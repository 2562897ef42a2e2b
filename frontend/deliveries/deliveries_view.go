package deliveries

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/viewmodel"
)

type PageData struct {
	Loading    bool
	Deliveries []viewmodel.Delivery
	Farmers    []viewmodel.Farmer
	Seasons    []viewmodel.Season
	Lots       []viewmodel.Lot
	SeasonID   *int64
}

var paymentOptions = []html.Option{
	{Value: "pending", Label: "Pending"},
	{Value: "paid", Label: "Paid"},
}

func DeliveriesPage(page html.Page, data PageData) templ.Component {
	var totalKg, totalValue float64
	pending := 0
	rows := make([][]templ.Component, 0, len(data.Deliveries))
	for _, d := range data.Deliveries {
		totalKg += d.Weight
		totalValue += d.TotalAmount
		if d.PaymentStatus != "paid" {
			pending++
		}
		rows = append(rows, []templ.Component{
			html.Text(d.Date + " " + d.Time),
			html.Text(d.FarmerName),
			html.Text(d.SeasonName),
			html.Text(html.Kg(d.Weight)),
			html.Text(html.Money(d.UnitPrice)),
			html.Text(html.Money(d.TotalAmount)),
			html.Text(html.Number(d.QualityScore)),
			html.Badge(d.PaymentStatus),
			PaymentToggle(d, "/cws/deliveries"),
		})
	}

	return html.Layout(page,
		html.Stats(
			html.Stat{Label: "Deliveries", Value: strconv.Itoa(len(data.Deliveries))},
			html.Stat{Label: "Cherry received", Value: html.Kg(totalKg)},
			html.Stat{Label: "Value", Value: html.Money(totalValue)},
			html.Stat{Label: "Pending payments", Value: strconv.Itoa(pending)},
		),
		html.Section("Record delivery", html.Form("post", "/cws/deliveries", "Record",
			html.Field{Label: "Farmer", Name: "farmer_id", Type: "select", Options: web.FarmerOptions(data.Farmers), Required: true},
			html.Field{Label: "Season", Name: "season_id", Type: "select", Options: web.SeasonOptions(data.Seasons), Value: web.IDString(data.SeasonID)},
			html.Field{Label: "Lot", Name: "lot_id", Type: "select", Options: web.LotOptions(data.Lots, "No lot yet")},
			html.Field{Label: "Date", Name: "delivery_date", Type: "date", Value: time.Now().Format("2006-01-02"), Required: true},
			html.Field{Label: "Weight (kg)", Name: "weight_kg", Type: "number", Step: "0.01", Required: true},
			html.Field{Label: "Unit price (RWF/kg)", Name: "unit_price", Type: "number", Step: "1", Required: true},
			html.Field{Label: "Quality score", Name: "quality_score", Type: "number", Step: "0.1", Value: "0"},
			html.Field{Label: "Payment", Name: "payment_status", Type: "select", Options: paymentOptions, Value: "pending"},
		)),
		html.Section("Deliveries", html.State(data.Loading, len(data.Deliveries), html.Table(
			[]string{"Delivered", "Farmer", "Season", "Weight", "Unit price", "Total", "Quality", "Payment", ""},
			rows, "No deliveries recorded yet.",
		))),
	)
}

// PaymentToggle posts the opposite payment status; back is the page the
// handler returns to.
func PaymentToggle(d viewmodel.Delivery, back string) templ.Component {
	action := "/cws/deliveries/" + strconv.FormatInt(d.ID, 10) + "/payment"
	if d.PaymentStatus == "paid" {
		return html.PostButton(action, "Mark pending",
			html.Field{Name: "payment_status", Value: "pending"}, html.Field{Name: "return", Value: back})
	}
	return html.PostButton(action, "Mark paid",
		html.Field{Name: "payment_status", Value: "paid"}, html.Field{Name: "return", Value: back})
}
