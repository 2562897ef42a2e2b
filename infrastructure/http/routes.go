package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cwsdash/frontend/assets"
	"cwsdash/frontend/auditlogs"
	"cwsdash/frontend/compliance"
	"cwsdash/frontend/dashboard"
	"cwsdash/frontend/deliveries"
	"cwsdash/frontend/farmers"
	"cwsdash/frontend/finance"
	"cwsdash/frontend/login"
	"cwsdash/frontend/lots"
	"cwsdash/frontend/profile"
	"cwsdash/frontend/refresh"
	"cwsdash/frontend/seasons"
	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/web"
	"cwsdash/frontend/storage"
	"cwsdash/frontend/users"
	"cwsdash/infrastructure/rbac"
)

var (
	everyone    = rbac.AllRoles
	operations  = []string{rbac.RoleAdmin, rbac.RoleOperator}
	finances    = []string{rbac.RoleAdmin, rbac.RoleFinance}
	compliant   = []string{rbac.RoleAdmin, rbac.RoleSustainability}
	adminOnly   = []string{rbac.RoleAdmin}
	deliveryOps = []string{rbac.RoleAdmin, rbac.RoleOperator, rbac.RoleFinance}
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.Client, s.Sessions, s.Audit))
	s.router.Post("/logout", login.LogoutHandler(s.Sessions, s.Audit))
}

// RegisterAdminRoutes registers admin-only routes.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	s.Rbac.Grant(nav.ScreenSeasons, http.MethodGet, "/cws/seasons", adminOnly...)
	r.Get("/seasons", seasons.SeasonsPageQueryHandler())
	s.Rbac.Grant("SEASONS_CREATE", http.MethodPost, "/cws/seasons", adminOnly...)
	r.Post("/seasons", seasons.CreateSeasonCommandHandler(s.Client, s.Audit))

	s.Rbac.Grant(nav.ScreenAuditLogs, http.MethodGet, "/cws/audit-logs", adminOnly...)
	r.Get("/audit-logs", auditlogs.AuditLogsPageQueryHandler())

	s.Rbac.Grant(nav.ScreenUsers, http.MethodGet, "/cws/users", adminOnly...)
	r.Get("/users", users.UsersPageQueryHandler())
	s.Rbac.Grant("USERS_CREATE", http.MethodPost, "/cws/users", adminOnly...)
	r.Post("/users", users.CreateUserCommandHandler(s.Client, s.Audit))
	return r
}

// RegisterFrontendRoutes registers authenticated routes.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	s.Rbac.Grant(nav.ScreenDashboard, http.MethodGet, "/cws/dashboard", everyone...)
	r.Get("/dashboard", dashboard.DashboardPageQueryHandler())

	s.Rbac.Grant(nav.ScreenProfile, http.MethodGet, "/cws/profile", everyone...)
	r.Get("/profile", profile.ProfilePageQueryHandler(s.Client, s.Audit, s.Logger))

	s.Rbac.Grant("DATA_REFRESH", http.MethodPost, "/cws/refresh", everyone...)
	r.Post("/refresh", refresh.RefreshCommandHandler())

	s.Rbac.Grant("LIVE_FEED", http.MethodGet, "/cws/live", everyone...)
	r.Get("/live", s.liveFeedHandler())

	s.RegisterIntakeRoutes(r)
	s.RegisterProcessingRoutes(r)
	s.RegisterComplianceRoutes(r)
	s.RegisterFinanceRoutes(r)
	return r
}

func (s *Server) RegisterIntakeRoutes(r chi.Router) {
	s.Rbac.Grant(nav.ScreenFarmers, http.MethodGet, "/cws/farmers", operations...)
	r.Get("/farmers", farmers.FarmersPageQueryHandler())
	s.Rbac.Grant("FARMERS_CREATE", http.MethodPost, "/cws/farmers", operations...)
	r.Post("/farmers", farmers.CreateFarmerCommandHandler(s.Client, s.Audit, s.PhoneRegion))

	s.Rbac.Grant(nav.ScreenDeliveries, http.MethodGet, "/cws/deliveries", deliveryOps...)
	r.Get("/deliveries", deliveries.DeliveriesPageQueryHandler())
	s.Rbac.Grant("DELIVERIES_CREATE", http.MethodPost, "/cws/deliveries", operations...)
	r.Post("/deliveries", deliveries.CreateDeliveryCommandHandler(s.Client, s.Audit))
	s.Rbac.Grant("DELIVERIES_PAYMENT", http.MethodPost, "/cws/deliveries/*/payment", deliveryOps...)
	r.Post("/deliveries/{id}/payment", deliveries.UpdatePaymentCommandHandler(s.Client, s.Audit))
}

func (s *Server) RegisterProcessingRoutes(r chi.Router) {
	s.Rbac.Grant(nav.ScreenLots, http.MethodGet, "/cws/lots", operations...)
	r.Get("/lots", lots.LotsPageQueryHandler())
	s.Rbac.Grant("LOTS_CREATE", http.MethodPost, "/cws/lots", operations...)
	r.Post("/lots", lots.CreateLotCommandHandler(s.Client, s.Audit))
	s.Rbac.Grant("LOT_DETAIL_VIEW", http.MethodGet, "/cws/lots/*", operations...)
	r.Get("/lots/{id}", lots.LotDetailPageQueryHandler(s.Client, s.Logger))
	s.Rbac.Grant("LOT_STATUS_EDIT", http.MethodPost, "/cws/lots/*/status", operations...)
	r.Post("/lots/{id}/status", lots.UpdateLotStatusCommandHandler(s.Client, s.Audit))
	s.Rbac.Grant("LOT_STAGE_CREATE", http.MethodPost, "/cws/lots/*/stages", operations...)
	r.Post("/lots/{id}/stages", lots.LogStageCommandHandler(s.Client, s.Audit))

	s.Rbac.Grant(nav.ScreenStorage, http.MethodGet, "/cws/storage", operations...)
	r.Get("/storage", storage.StoragePageQueryHandler())
	s.Rbac.Grant("STORAGE_CREATE", http.MethodPost, "/cws/storage", operations...)
	r.Post("/storage", storage.CreateBagCommandHandler(s.Client, s.Audit))
	s.Rbac.Grant("STORAGE_DISPATCH", http.MethodPost, "/cws/storage/*/dispatch", operations...)
	r.Post("/storage/{id}/dispatch", storage.DispatchBagCommandHandler(s.Client, s.Audit))
	s.Rbac.Grant("STORAGE_LABEL_VIEW", http.MethodGet, "/cws/storage/*/label", operations...)
	r.Get("/storage/{id}/label", storage.BagLabelQueryHandler(s.Audit))
	s.Rbac.Grant("STORAGE_LABELS_VIEW", http.MethodGet, "/cws/storage/labels", operations...)
	r.Get("/storage/labels", storage.QueueLabelsQueryHandler(s.Audit))
}

func (s *Server) RegisterComplianceRoutes(r chi.Router) {
	s.Rbac.Grant(nav.ScreenCompliance, http.MethodGet, "/cws/compliance", compliant...)
	r.Get("/compliance", compliance.CompliancePageQueryHandler())
	s.Rbac.Grant("COMPLIANCE_QUALITY_CREATE", http.MethodPost, "/cws/compliance/quality", compliant...)
	r.Post("/compliance/quality", compliance.CreateQualityCheckCommandHandler(s.Client, s.Audit))
	s.Rbac.Grant("COMPLIANCE_SUSTAINABILITY_CREATE", http.MethodPost, "/cws/compliance/sustainability", compliant...)
	r.Post("/compliance/sustainability", compliance.CreateSustainabilityCheckCommandHandler(s.Client, s.Audit))
}

func (s *Server) RegisterFinanceRoutes(r chi.Router) {
	s.Rbac.Grant(nav.ScreenFinance, http.MethodGet, "/cws/finance", finances...)
	r.Get("/finance", finance.FinancePageQueryHandler())
	s.Rbac.Grant("FINANCE_EXPENSE_CREATE", http.MethodPost, "/cws/finance/expenses", finances...)
	r.Post("/finance/expenses", finance.CreateExpenseCommandHandler(s.Client, s.Audit))
	s.Rbac.Grant("FINANCE_REVENUE_CREATE", http.MethodPost, "/cws/finance/revenues", finances...)
	r.Post("/finance/revenues", finance.CreateRevenueCommandHandler(s.Client, s.Audit))
	s.Rbac.Grant("FINANCE_LABOR_CREATE", http.MethodPost, "/cws/finance/labor", finances...)
	r.Post("/finance/labor", finance.CreateLaborCommandHandler(s.Client, s.Audit))
	s.Rbac.Grant("FINANCE_STATEMENT_PDF", http.MethodGet, "/cws/finance/statement.pdf", finances...)
	r.Get("/finance/statement.pdf", finance.StatementPDFQueryHandler(s.Audit))
	s.Rbac.Grant("FINANCE_STATEMENT_XLSX", http.MethodGet, "/cws/finance/statement.xlsx", finances...)
	r.Get("/finance/statement.xlsx", finance.StatementXLSXQueryHandler(s.Audit))

	s.Rbac.Grant(nav.ScreenAssets, http.MethodGet, "/cws/assets", finances...)
	r.Get("/assets", assets.AssetsPageQueryHandler(s.Now))
	s.Rbac.Grant("ASSETS_CREATE", http.MethodPost, "/cws/assets", finances...)
	r.Post("/assets", assets.CreateAssetCommandHandler(s.Client, s.Audit))
}

// liveFeedHandler keeps a websocket open for the session; the store's
// background refetches are pushed through it.
func (s *Server) liveFeedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Hub.Serve(w, r, sess.ID)
	}
}
