package nav

import "cwsdash/models"

// Screen codes. Each page's GET route is registered under its code, and
// the nav shows a link only when the session's roles grant that code.
const (
	ScreenDashboard  = "DASHBOARD_VIEW"
	ScreenFarmers    = "FARMERS_VIEW"
	ScreenDeliveries = "DELIVERIES_VIEW"
	ScreenLots       = "LOTS_VIEW"
	ScreenStorage    = "STORAGE_VIEW"
	ScreenCompliance = "COMPLIANCE_VIEW"
	ScreenFinance    = "FINANCE_VIEW"
	ScreenAssets     = "ASSETS_VIEW"
	ScreenSeasons    = "SEASONS_VIEW"
	ScreenAuditLogs  = "AUDIT_LOGS_VIEW"
	ScreenUsers      = "USERS_VIEW"
	ScreenProfile    = "PROFILE_VIEW"
)

type Link struct {
	Code  string
	Label string
	Href  string
}

var links = []Link{
	{ScreenDashboard, "Dashboard", "/cws/dashboard"},
	{ScreenFarmers, "Farmers", "/cws/farmers"},
	{ScreenDeliveries, "Deliveries", "/cws/deliveries"},
	{ScreenLots, "Lots", "/cws/lots"},
	{ScreenStorage, "Storage", "/cws/storage"},
	{ScreenCompliance, "Compliance", "/cws/compliance"},
	{ScreenFinance, "Finance", "/cws/finance"},
	{ScreenAssets, "Assets", "/cws/assets"},
	{ScreenSeasons, "Seasons", "/cws/seasons"},
	{ScreenAuditLogs, "Audit Logs", "/cws/audit-logs"},
	{ScreenUsers, "Users", "/cws/users"},
	{ScreenProfile, "Profile", "/cws/profile"},
}

// TopNavData is shared with page renderers.
type TopNavData struct {
	Name   string
	Role   string
	Active string
	Links  []Link
}

func BuildTopNavData(session models.Session, active string) TopNavData {
	data := TopNavData{Name: session.Name, Role: session.Role, Active: active}
	for _, l := range links {
		if session.ScreenPermissions[l.Code] == 1 {
			data.Links = append(data.Links, l)
		}
	}
	return data
}
