package users

import (
	"net/http"
	"strconv"
	"strings"

	"cwsdash/frontend/login"
	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/validate"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/store"
)

const usersPath = "/cws/users"

func UsersPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), store.Users)
		page := web.Page(r, session, "Users", nav.ScreenUsers, store.Users)
		web.Render(w, r, UsersPage(page, s.Loading(store.Users), s.Users()), "users page")
	}
}

// CreateUserCommandHandler registers a backend account. The password is
// never written to the activity trail.
func CreateUserCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, usersPath, "invalid form data")
			return
		}
		in := backend.RegisterInput{
			Name:     web.FormText(r, "name"),
			Email:    strings.ToLower(web.FormText(r, "email")),
			Password: r.FormValue("password"),
			Role:     strings.ToLower(web.FormText(r, "role")),
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, usersPath, err.Error())
			return
		}
		if err := login.ValidatePasswordPolicy(in.Password); err != nil {
			web.RedirectError(w, r, usersPath, err.Error())
			return
		}

		created, err := web.API(client, session).Register(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "user", EntityID: strconv.FormatInt(created.ID, 10),
			Detail: map[string]string{"name": in.Name, "email": in.Email, "role": in.Role}, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, usersPath, backend.UserMessage(err, "failed to create user"))
			return
		}
		s.Refresh(r.Context(), store.Users)
		web.Redirect(w, r, usersPath, "user "+in.Email+" created")
	}
}
