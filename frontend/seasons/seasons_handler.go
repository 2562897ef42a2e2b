package seasons

import (
	"net/http"
	"strconv"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/validate"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/store"
)

const seasonsPath = "/cws/seasons"

func SeasonsPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), store.Seasons)
		page := web.Page(r, session, "Seasons", nav.ScreenSeasons, store.Seasons)
		web.Render(w, r, SeasonsPage(page, s.Loading(store.Seasons), s.Seasons()), "seasons page")
	}
}

// CreateSeasonCommandHandler opens a harvest season. Keeping a single
// active season is left to the backend.
func CreateSeasonCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, seasonsPath, "invalid form data")
			return
		}
		in := backend.SeasonInput{
			Name:      web.FormText(r, "name"),
			StartDate: web.FormText(r, "start_date"),
			EndDate:   web.FormText(r, "end_date"),
			Active:    web.FormBool(r, "active"),
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, seasonsPath, err.Error())
			return
		}
		if in.EndDate < in.StartDate {
			web.RedirectError(w, r, seasonsPath, "end date must not be before start date")
			return
		}

		created, err := web.API(client, session).CreateSeason(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "season", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, seasonsPath, backend.UserMessage(err, "failed to create season"))
			return
		}
		s.Refresh(r.Context(), store.Seasons)
		web.Redirect(w, r, seasonsPath, "season "+in.Name+" created")
	}
}
