package users

import (
	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/infrastructure/rbac"
	"cwsdash/infrastructure/viewmodel"
)

func roleOptions() []html.Option {
	out := make([]html.Option, 0, len(rbac.AllRoles))
	for _, r := range rbac.AllRoles {
		out = append(out, html.Option{Value: r, Label: r})
	}
	return out
}

func UsersPage(page html.Page, loading bool, users []viewmodel.User) templ.Component {
	rows := make([][]templ.Component, 0, len(users))
	for _, u := range users {
		state := "inactive"
		if u.Active {
			state = "active"
		}
		rows = append(rows, []templ.Component{
			html.Text(u.Name), html.Text(u.Email), html.Text(u.Role), html.Badge(state),
		})
	}
	return html.Layout(page,
		html.Section("Add user", html.Form("post", "/cws/users", "Create",
			html.Field{Label: "Name", Name: "name", Required: true},
			html.Field{Label: "Email", Name: "email", Type: "email", Required: true},
			html.Field{Label: "Password", Name: "password", Type: "password", Required: true},
			html.Field{Label: "Role", Name: "role", Type: "select", Options: roleOptions(), Value: rbac.RoleOperator},
		)),
		html.Section("Users", html.State(loading, len(users), html.Table(
			[]string{"Name", "Email", "Role", "State"}, rows, "No users found.",
		))),
	)
}
