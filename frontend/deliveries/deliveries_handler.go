package deliveries

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/validate"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/store"
)

const deliveriesPath = "/cws/deliveries"

func DeliveriesPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), store.Deliveries, store.Farmers, store.Seasons, store.Lots)
		page := web.Page(r, session, "Deliveries", nav.ScreenDeliveries, store.Deliveries)
		seasons := s.Seasons()
		data := PageData{
			Loading:    s.Loading(store.Deliveries),
			Deliveries: s.Deliveries(),
			Farmers:    s.Farmers(),
			Seasons:    seasons,
			Lots:       s.Lots(),
			SeasonID:   aggregate.CurrentSeasonID(seasons),
		}
		web.Render(w, r, DeliveriesPage(page, data), "deliveries page")
	}
}

// CreateDeliveryCommandHandler records a cherry delivery. The total is
// weight times unit price.
func CreateDeliveryCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, deliveriesPath, "invalid form data")
			return
		}

		in := backend.DeliveryInput{
			DeliveryDate:  web.FormText(r, "delivery_date"),
			SeasonID:      web.FormID(r, "season_id"),
			LotID:         web.FormID(r, "lot_id"),
			WeightKg:      web.FormFloat(r, "weight_kg"),
			UnitPrice:     web.FormFloat(r, "unit_price"),
			QualityScore:  web.FormFloat(r, "quality_score"),
			PaymentStatus: strings.ToLower(web.FormText(r, "payment_status")),
		}
		if id := web.FormID(r, "farmer_id"); id != nil {
			in.FarmerID = *id
		}
		if in.PaymentStatus == "" {
			in.PaymentStatus = "pending"
		}
		in.TotalAmount, _ = decimal.NewFromFloat(in.WeightKg).Mul(decimal.NewFromFloat(in.UnitPrice)).Round(2).Float64()
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, deliveriesPath, err.Error())
			return
		}

		created, err := web.API(client, session).CreateDelivery(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "delivery", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, deliveriesPath, backend.UserMessage(err, "failed to record delivery"))
			return
		}
		s.Refresh(r.Context(), store.Deliveries, store.Lots)
		web.Redirect(w, r, deliveriesPath, "delivery recorded")
	}
}

// UpdatePaymentCommandHandler flips the payment status of one delivery.
// The form may name the page to return to.
func UpdatePaymentCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		back := returnPath(r.FormValue("return"))
		id, ok := web.URLID(r, "id")
		if !ok {
			web.RedirectError(w, r, back, "invalid delivery id")
			return
		}
		in := backend.PaymentUpdate{PaymentStatus: strings.ToLower(web.FormText(r, "payment_status"))}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, back, err.Error())
			return
		}

		_, err := web.API(client, session).UpdateDeliveryPayment(r.Context(), id, in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "update_payment", EntityType: "delivery", EntityID: strconv.FormatInt(id, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, back, backend.UserMessage(err, "failed to update payment"))
			return
		}
		s.SetPaymentStatus(id, in.PaymentStatus)
		s.Refresh(r.Context(), store.Deliveries)
		web.Redirect(w, r, back, "payment marked "+in.PaymentStatus)
	}
}

func returnPath(raw string) string {
	if raw == "/cws/finance" {
		return raw
	}
	return deliveriesPath
}
