package login

import (
	"net/http"

	"cwsdash/frontend/shared/html"
	"cwsdash/frontend/shared/web"
)

// GetLoginScreenHandler renders the login screen.
func GetLoginScreenHandler(w http.ResponseWriter, r *http.Request) {
	web.Render(w, r, GetLoginScreen(html.FlashFromRequest(r)), "login screen")
}
