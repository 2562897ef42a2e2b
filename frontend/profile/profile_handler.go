package profile

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/config"
	"cwsdash/infrastructure/viewmodel"
	"cwsdash/models"
)

const recentActivity = 25

// Account is the profile header. It prefers the backend's /auth/me answer
// and falls back to what was captured at login.
type Account struct {
	Name   string
	Email  string
	Role   string
	Active bool
	Stale  bool
}

func ProfilePageQueryHandler(client *backend.Client, auditSvc *audit.Service, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _, ok := web.Require(w, r)
		if !ok {
			return
		}
		account := Account{Name: session.Name, Email: session.Email, Role: session.Role, Active: true}
		me, err := web.API(client, session).Me(r.Context())
		if err != nil {
			config.LogError(logger, "profile", "ProfilePageQueryHandler", "load /auth/me", session.UserID, err)
			account.Stale = true
		} else {
			account = fromUser(me, session)
		}

		activity, err := auditSvc.Recent(r.Context(), session.UserID, recentActivity)
		if err != nil {
			config.LogError(logger, "profile", "ProfilePageQueryHandler", "load recent activity", session.UserID, err)
		}
		page := web.Page(r, session, "Profile", nav.ScreenProfile)
		web.Render(w, r, ProfilePage(page, account, session, activity), "profile page")
	}
}

func fromUser(u backend.User, session models.Session) Account {
	return Account{
		Name:   viewmodel.DereferencePtr(u.Name, session.Name),
		Email:  viewmodel.DereferencePtr(u.Email, session.Email),
		Role:   viewmodel.DereferencePtr(u.Role, session.Role),
		Active: viewmodel.DereferencePtr(u.Active, true),
	}
}
