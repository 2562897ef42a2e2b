package farmers

import (
	"strconv"

	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/infrastructure/aggregate"
)

var farmTypes = []html.Option{
	{Value: "", Label: "Select"},
	{Value: "smallholder", Label: "Smallholder"},
	{Value: "cooperative", Label: "Cooperative"},
	{Value: "estate", Label: "Estate"},
}

func FarmersPage(page html.Page, loading bool, farmers []aggregate.FarmerSummary) templ.Component {
	rows := make([][]templ.Component, 0, len(farmers))
	for _, f := range farmers {
		rows = append(rows, []templ.Component{
			html.Text(f.Name),
			html.Text(f.Phone),
			html.Text(location(f.Sector, f.Cell, f.Village)),
			html.Text(f.FarmType),
			html.Badge(activeLabel(f.Active)),
			html.Text(strconv.Itoa(f.TotalDeliveries)),
			html.Text(html.Kg(f.TotalWeight)),
		})
	}
	table := html.Table(
		[]string{"Name", "Phone", "Location", "Farm type", "Status", "Deliveries", "Delivered"},
		rows, "No farmers registered yet.",
	)
	return html.Layout(page,
		html.Section("Register farmer", html.Form("post", "/cws/farmers", "Register",
			html.Field{Label: "Name", Name: "name", Required: true},
			html.Field{Label: "Phone", Name: "phone", Type: "tel", Required: true},
			html.Field{Label: "Sector", Name: "sector", Required: true},
			html.Field{Label: "Cell", Name: "cell"},
			html.Field{Label: "Village", Name: "village"},
			html.Field{Label: "Farm type", Name: "farm_type", Type: "select", Options: farmTypes},
		)),
		html.Section("Farmers", html.State(loading, len(farmers), table)),
	)
}

func location(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

func activeLabel(active *bool) string {
	switch {
	case active == nil:
		return "Unknown"
	case *active:
		return "Active"
	default:
		return "Inactive"
	}
}
