package dashboard

import (
	"net/http"
	"sort"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/store"
	"cwsdash/infrastructure/viewmodel"
)

const recentDeliveries = 5

func DashboardPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), store.InitialLoad...)
		page := web.Page(r, session, "Dashboard", nav.ScreenDashboard, store.InitialLoad...)
		web.Render(w, r, DashboardPage(page, overview(s)), "dashboard page")
	}
}

func overview(s *store.Store) Overview {
	seasons := s.Seasons()
	seasonID := aggregate.CurrentSeasonID(seasons)
	deliveries := s.Deliveries()

	o := Overview{
		Loading: s.Loading(store.Deliveries) || s.Loading(store.Farmers),
		Farmers: len(s.Farmers()),
		Finance: aggregate.Financials(s.Financials(), seasonID),
		InQueue: len(aggregate.AvailableBags(s.StorageBags())),
		AllLots: len(s.Lots()),
	}
	if season, ok := aggregate.CurrentSeason(seasons); ok {
		o.Season = season.Name
	}
	for _, f := range s.Farmers() {
		if viewmodel.DereferencePtr(f.Active, true) {
			o.ActiveFarmers++
		}
	}
	for _, d := range deliveries {
		if d.PaymentStatus != "paid" {
			o.PendingPayments++
			o.PendingAmount += d.TotalAmount
		}
	}
	for _, l := range s.EnrichedLots() {
		if l.StatusCode == "in_process" || l.StatusCode == "created" {
			o.OpenLots = append(o.OpenLots, l)
		}
	}

	sort.SliceStable(deliveries, func(i, j int) bool {
		return deliveries[i].DeliveredAt.After(deliveries[j].DeliveredAt)
	})
	if len(deliveries) > recentDeliveries {
		deliveries = deliveries[:recentDeliveries]
	}
	o.Recent = deliveries
	return o
}
