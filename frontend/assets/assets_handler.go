package assets

import (
	"net/http"
	"strconv"
	"time"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/validate"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/store"
)

const assetsPath = "/cws/assets"

// AssetsPageQueryHandler lists assets at their depreciated value as of now.
func AssetsPageQueryHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), store.Assets, store.Seasons)
		page := web.Page(r, session, "Assets", nav.ScreenAssets, store.Assets)
		assets := aggregate.DepreciateAssets(s.Assets(), now())
		seasons := s.Seasons()
		data := PageData{
			Loading:  s.Loading(store.Assets),
			Assets:   assets,
			Totals:   aggregate.SumAssets(assets),
			Seasons:  seasons,
			SeasonID: aggregate.CurrentSeasonID(seasons),
		}
		web.Render(w, r, AssetsPage(page, data), "assets page")
	}
}

func CreateAssetCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, assetsPath, "invalid form data")
			return
		}
		in := backend.AssetInput{
			Name:          web.FormText(r, "name"),
			Category:      web.FormText(r, "category"),
			PurchaseValue: web.FormFloat(r, "purchase_value"),
			PurchaseDate:  web.FormText(r, "purchase_date"),
			LifespanYears: web.FormFloat(r, "lifespan_years"),
			SeasonID:      web.FormID(r, "season_id"),
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, assetsPath, err.Error())
			return
		}

		created, err := web.API(client, session).CreateAsset(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "asset", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, assetsPath, backend.UserMessage(err, "failed to record asset"))
			return
		}
		s.Refresh(r.Context(), store.Assets)
		web.Redirect(w, r, assetsPath, "asset recorded")
	}
}
