package login

import (
	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
)

func GetLoginScreen(flash html.Flash) templ.Component {
	return html.PublicLayout("Sign in | CWS Dashboard", flash, html.Section("Sign in",
		html.Form("post", "/login", "Sign in",
			html.Field{Label: "Email", Name: "email", Type: "email", Required: true},
			html.Field{Label: "Password", Name: "password", Type: "password", Required: true},
		),
	))
}
