package auditlogs

import (
	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/viewmodel"
)

var actionOptions = []html.Option{
	{Value: "", Label: "Any action"},
	{Value: "CREATE", Label: "Create"},
	{Value: "UPDATE", Label: "Update"},
	{Value: "DELETE", Label: "Delete"},
}

var tableOptions = []html.Option{
	{Value: "", Label: "Any table"},
	{Value: "farmers", Label: "Farmers"},
	{Value: "deliveries", Label: "Deliveries"},
	{Value: "lots", Label: "Lots"},
	{Value: "processing_logs", Label: "Processing logs"},
	{Value: "storage", Label: "Storage"},
	{Value: "compliance_logs", Label: "Compliance logs"},
	{Value: "expenses", Label: "Expenses"},
	{Value: "revenues", Label: "Revenues"},
	{Value: "labor_logs", Label: "Labor logs"},
	{Value: "assets", Label: "Assets"},
	{Value: "seasons", Label: "Seasons"},
	{Value: "users", Label: "Users"},
}

func AuditLogsPage(page html.Page, filter backend.AuditFilter, entries []viewmodel.AuditEntry) templ.Component {
	rows := make([][]templ.Component, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []templ.Component{
			html.Text(e.Date), html.Text(e.Time), html.Text(e.Name), html.Text(e.Role),
			html.Badge(e.Action), html.Text(e.Entity), html.Text(e.EntityID),
		})
	}
	return html.Layout(page,
		html.Form("get", "/cws/audit-logs", "Filter",
			html.Field{Label: "User", Name: "user", Value: filter.User},
			html.Field{Label: "Action", Name: "action", Type: "select", Options: actionOptions, Value: filter.Action},
			html.Field{Label: "Table", Name: "table_name", Type: "select", Options: tableOptions, Value: filter.TableName},
		),
		html.Section("Audit trail", html.Table(
			[]string{"Date", "Time", "User", "Role", "Action", "Table", "Record"},
			rows, "No audit entries match.",
		)),
	)
}
