package assets

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/viewmodel"
)

type PageData struct {
	Loading  bool
	Assets   []viewmodel.Asset
	Totals   aggregate.AssetTotals
	Seasons  []viewmodel.Season
	SeasonID *int64
}

func AssetsPage(page html.Page, data PageData) templ.Component {
	rows := make([][]templ.Component, 0, len(data.Assets))
	for _, a := range data.Assets {
		purchased := "-"
		if !a.PurchaseDate.IsZero() {
			purchased = a.PurchaseDate.Format("2006-01-02")
		}
		rows = append(rows, []templ.Component{
			html.Text(a.Name),
			html.Text(a.Category),
			html.Text(purchased),
			html.Text(html.Number(a.LifespanYears) + " yrs"),
			html.Text(html.Money(a.PurchaseValue)),
			html.Text(html.Money(a.CurrentValue)),
		})
	}

	return html.Layout(page,
		html.Stats(
			html.Stat{Label: "Assets", Value: strconv.Itoa(len(data.Assets))},
			html.Stat{Label: "Purchase value", Value: html.Money(data.Totals.PurchaseValue)},
			html.Stat{Label: "Current value", Value: html.Money(data.Totals.CurrentValue)},
			html.Stat{Label: "Depreciation", Value: html.Money(data.Totals.Depreciation)},
		),
		html.Section("Record asset", html.Form("post", "/cws/assets", "Record",
			html.Field{Label: "Name", Name: "name", Required: true},
			html.Field{Label: "Category", Name: "category", Required: true},
			html.Field{Label: "Purchase value (RWF)", Name: "purchase_value", Type: "number", Step: "1", Required: true},
			html.Field{Label: "Purchase date", Name: "purchase_date", Type: "date", Value: time.Now().Format("2006-01-02"), Required: true},
			html.Field{Label: "Lifespan (years)", Name: "lifespan_years", Type: "number", Step: "0.5", Required: true},
			html.Field{Label: "Season", Name: "season_id", Type: "select", Options: web.SeasonOptions(data.Seasons), Value: web.IDString(data.SeasonID)},
		)),
		html.Section("Assets", html.State(data.Loading, len(data.Assets), html.Table(
			[]string{"Name", "Category", "Purchased", "Lifespan", "Purchase value", "Current value"},
			rows, "No assets recorded yet.",
		))),
	)
}
