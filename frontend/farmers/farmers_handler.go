package farmers

import (
	"net/http"
	"strconv"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/validate"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/store"
)

const farmersPath = "/cws/farmers"

// FarmersPageQueryHandler lists farmers with their delivery totals.
func FarmersPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), store.Farmers, store.Deliveries)
		page := web.Page(r, session, "Farmers", nav.ScreenFarmers, store.Farmers, store.Deliveries)
		summaries := aggregate.FarmerSummaries(s.Farmers(), s.Deliveries())
		web.Render(w, r, FarmersPage(page, s.Loading(store.Farmers), summaries), "farmers page")
	}
}

// CreateFarmerCommandHandler registers a farmer. The phone number is
// normalized to E.164 for region before it is sent.
func CreateFarmerCommandHandler(client *backend.Client, auditSvc *audit.Service, region string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, farmersPath, "invalid form data")
			return
		}

		in := backend.FarmerInput{
			Name:  web.FormText(r, "name"),
			Phone: web.FormText(r, "phone"),
			Location: backend.LocationInput{
				Sector:   web.FormText(r, "sector"),
				Cell:     web.FormText(r, "cell"),
				Village:  web.FormText(r, "village"),
				FarmType: web.FormText(r, "farm_type"),
			},
			Active: true,
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, farmersPath, err.Error())
			return
		}
		phone, err := validate.Phone(in.Phone, region)
		if err != nil {
			web.RedirectError(w, r, farmersPath, err.Error())
			return
		}
		in.Phone = phone

		created, err := web.API(client, session).CreateFarmer(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "farmer", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, farmersPath, backend.UserMessage(err, "failed to register farmer"))
			return
		}
		s.Refresh(r.Context(), store.Farmers)
		web.Redirect(w, r, farmersPath, "farmer registered")
	}
}
