package finance

import (
	"time"

	"github.com/a-h/templ"

	"cwsdash/frontend/deliveries"
	"cwsdash/frontend/shared/html"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/viewmodel"
)

// Statement is one season's (or every season's) financial position.
type Statement struct {
	Season          string
	SeasonID        *int64
	Summary         aggregate.FinancialSummary
	BySeason        []aggregate.SeasonRevenue
	Categories      []aggregate.CategoryTotal
	Expenses        []viewmodel.Expense
	Revenues        []viewmodel.Revenue
	Labor           []viewmodel.LaborLog
	PendingPayments []viewmodel.Delivery
}

type PageData struct {
	Loading   bool
	Statement Statement
	Seasons   []viewmodel.Season
	Lots      []viewmodel.Lot
	// Selected is the ?season= value: an id, "all", or "" when no season exists.
	Selected string
}

func filterOptions(seasons []viewmodel.Season) []html.Option {
	out := []html.Option{{Value: "all", Label: "All seasons"}}
	for _, s := range seasons {
		label := s.Name
		if s.Active {
			label += " (active)"
		}
		out = append(out, html.Option{Value: web.IDString(&s.ID), Label: label})
	}
	return out
}

func FinancePage(page html.Page, data PageData) templ.Component {
	st := data.Statement
	sum := st.Summary
	today := time.Now().Format("2006-01-02")
	exportQuery := "?season=" + data.Selected

	seasonRows := make([][]templ.Component, 0, len(st.BySeason))
	for _, sr := range st.BySeason {
		seasonRows = append(seasonRows, []templ.Component{
			html.Text(sr.SeasonName), html.Text(html.Kg(sr.QuantityKg)), html.Text(html.Money(sr.Revenue)),
		})
	}
	categoryRows := make([][]templ.Component, 0, len(st.Categories))
	for _, c := range st.Categories {
		categoryRows = append(categoryRows, []templ.Component{html.Text(c.Category), html.Text(html.Money(c.Amount))})
	}
	pendingRows := make([][]templ.Component, 0, len(st.PendingPayments))
	for _, d := range st.PendingPayments {
		pendingRows = append(pendingRows, []templ.Component{
			html.Text(d.Date), html.Text(d.FarmerName), html.Text(html.Kg(d.Weight)),
			html.Text(html.Money(d.TotalAmount)), deliveries.PaymentToggle(d, financePath),
		})
	}
	expenseRows := make([][]templ.Component, 0, len(st.Expenses))
	for _, e := range st.Expenses {
		expenseRows = append(expenseRows, []templ.Component{
			html.Text(e.Date), html.Text(e.Category), html.Text(e.Description), html.Text(html.Money(e.Amount)),
		})
	}
	revenueRows := make([][]templ.Component, 0, len(st.Revenues))
	for _, rv := range st.Revenues {
		revenueRows = append(revenueRows, []templ.Component{
			html.Text(rv.Date), html.Text(rv.Buyer), html.Text(html.Kg(rv.QuantityKg)),
			html.Text(html.Money(rv.UnitPrice)), html.Text(html.Money(rv.Amount)),
		})
	}
	laborRows := make([][]templ.Component, 0, len(st.Labor))
	for _, l := range st.Labor {
		laborRows = append(laborRows, []templ.Component{
			html.Text(l.Date), html.Text(l.WorkerName), html.Text(l.Task), html.Text(html.Number(l.Days)),
			html.Text(html.Money(l.DailyRate)), html.Text(html.Money(l.Amount)),
		})
	}

	seasonField := html.Field{Label: "Season", Name: "season_id", Type: "select", Options: web.SeasonOptions(data.Seasons), Value: web.IDString(st.SeasonID)}
	lotField := html.Field{Label: "Lot", Name: "lot_id", Type: "select", Options: web.LotOptions(data.Lots, "No lot")}

	return html.Layout(page,
		html.Form("get", financePath, "Show",
			html.Field{Label: "Season", Name: "season", Type: "select", Options: filterOptions(data.Seasons), Value: data.Selected},
		),
		html.Stats(
			html.Stat{Label: "Revenue", Value: html.Money(sum.Revenue)},
			html.Stat{Label: "Total cost", Value: html.Money(sum.TotalCost)},
			html.Stat{Label: "Net profit", Value: html.Money(sum.NetProfit)},
			html.Stat{Label: "Margin", Value: html.Percent(sum.ProfitMargin)},
			html.Stat{Label: "Cost per kg", Value: html.Money(sum.CostPerKg)},
		),
		html.Section("Statement: "+st.Season,
			html.Table([]string{"Line", "Amount"}, [][]templ.Component{
				{html.Text("Revenue"), html.Text(html.Money(sum.Revenue))},
				{html.Text("Cherry purchases"), html.Text(html.Money(sum.CherryPurchases))},
				{html.Text("Expenses"), html.Text(html.Money(sum.Expenses))},
				{html.Text("Labor"), html.Text(html.Money(sum.Labor))},
				{html.Text("Net profit"), html.Text(html.Money(sum.NetProfit))},
			}, ""),
			html.Link("/cws/finance/statement.pdf"+exportQuery, "Download PDF"),
			html.Text(" "),
			html.Link("/cws/finance/statement.xlsx"+exportQuery, "Download XLSX"),
		),
		html.Section("Revenue by season", html.Table([]string{"Season", "Sold", "Revenue"}, seasonRows, "No revenue recorded yet.")),
		html.Section("Expenses by category", html.Table([]string{"Category", "Amount"}, categoryRows, "No expenses in this period.")),
		html.Section("Pending farmer payments", html.Table([]string{"Delivered", "Farmer", "Weight", "Amount", ""}, pendingRows, "All farmers are paid.")),
		html.Section("Record expense", html.Form("post", financePath+"/expenses", "Record",
			html.Field{Label: "Category", Name: "category", Required: true},
			html.Field{Label: "Description", Name: "description"},
			html.Field{Label: "Amount (RWF)", Name: "amount", Type: "number", Step: "1", Required: true},
			html.Field{Label: "Date", Name: "expense_date", Type: "date", Value: today, Required: true},
			seasonField, lotField,
		)),
		html.Section("Record revenue", html.Form("post", financePath+"/revenues", "Record",
			html.Field{Label: "Buyer", Name: "buyer", Required: true},
			html.Field{Label: "Quantity (kg)", Name: "quantity_kg", Type: "number", Step: "0.01", Required: true},
			html.Field{Label: "Unit price (RWF/kg)", Name: "unit_price", Type: "number", Step: "1", Required: true},
			html.Field{Label: "Date", Name: "revenue_date", Type: "date", Value: today, Required: true},
			seasonField, lotField,
		)),
		html.Section("Record labor", html.Form("post", financePath+"/labor", "Record",
			html.Field{Label: "Worker", Name: "worker_name", Required: true},
			html.Field{Label: "Task", Name: "task", Required: true},
			html.Field{Label: "Date", Name: "work_date", Type: "date", Value: today, Required: true},
			html.Field{Label: "Days", Name: "days", Type: "number", Step: "0.5", Required: true},
			html.Field{Label: "Daily rate (RWF)", Name: "daily_rate", Type: "number", Step: "1", Required: true},
			seasonField, lotField,
		)),
		html.Section("Expenses", html.State(data.Loading, len(st.Expenses),
			html.Table([]string{"Date", "Category", "Description", "Amount"}, expenseRows, "No expenses in this period."))),
		html.Section("Revenues", html.State(data.Loading, len(st.Revenues),
			html.Table([]string{"Date", "Buyer", "Quantity", "Unit price", "Amount"}, revenueRows, "No revenue in this period."))),
		html.Section("Labor", html.State(data.Loading, len(st.Labor),
			html.Table([]string{"Date", "Worker", "Task", "Days", "Daily rate", "Amount"}, laborRows, "No labor in this period."))),
	)
}
