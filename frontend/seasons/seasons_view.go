package seasons

import (
	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/infrastructure/viewmodel"
)

func SeasonsPage(page html.Page, loading bool, seasons []viewmodel.Season) templ.Component {
	rows := make([][]templ.Component, 0, len(seasons))
	for _, s := range seasons {
		state := "closed"
		if s.Active {
			state = "active"
		}
		rows = append(rows, []templ.Component{
			html.Text(s.Name), html.Text(s.StartDate), html.Text(s.EndDate), html.Badge(state),
		})
	}
	return html.Layout(page,
		html.Section("Open season", html.Form("post", "/cws/seasons", "Create",
			html.Field{Label: "Name", Name: "name", Required: true},
			html.Field{Label: "Start", Name: "start_date", Type: "date", Required: true},
			html.Field{Label: "End", Name: "end_date", Type: "date", Required: true},
			html.Field{Label: "Active", Name: "active", Type: "checkbox"},
		)),
		html.Section("Seasons", html.State(loading, len(seasons), html.Table(
			[]string{"Name", "Start", "End", "State"}, rows, "No seasons yet.",
		))),
	)
}
