package profile

import (
	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/infrastructure/viewmodel"
	"cwsdash/models"
)

func ProfilePage(page html.Page, account Account, session models.Session, activity []models.ActivityLog) templ.Component {
	screens := make([][]templ.Component, 0, len(page.Nav.Links))
	for _, l := range page.Nav.Links {
		screens = append(screens, []templ.Component{html.Link(l.Href, l.Label)})
	}
	rows := make([][]templ.Component, 0, len(activity))
	for _, a := range activity {
		rows = append(rows, []templ.Component{
			html.Text(a.CreatedAt.In(viewmodel.DisplayLocation).Format("2006-01-02 15:04")),
			html.Text(a.Action),
			html.Text(a.EntityType),
			html.Text(a.EntityID),
			html.Badge(a.Outcome),
		})
	}
	status := "active"
	if !account.Active {
		status = "inactive"
	}
	accountRows := [][]templ.Component{
		{html.Text("Name"), html.Text(account.Name)},
		{html.Text("Email"), html.Text(account.Email)},
		{html.Text("Role"), html.Badge(account.Role)},
		{html.Text("Status"), html.Badge(status)},
		{html.Text("Session expires"), html.Text(session.ExpiresAt.In(viewmodel.DisplayLocation).Format("2006-01-02 15:04"))},
	}
	accountSection := html.Section("Account", html.Table([]string{"", ""}, accountRows, ""))
	if account.Stale {
		accountSection = html.Section("Account",
			html.Notice("Could not reach the backend; showing the details captured at login."),
			html.Table([]string{"", ""}, accountRows, ""),
		)
	}
	return html.Layout(page,
		accountSection,
		html.Section("Screens", html.Table([]string{"Screen"}, screens, "No screens granted.")),
		html.Section("Recent activity", html.Table(
			[]string{"When", "Action", "Entity", "Record", "Outcome"}, rows, "No recorded activity yet.",
		)),
	)
}
