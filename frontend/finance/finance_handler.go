package finance

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/validate"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/store"
	"cwsdash/infrastructure/viewmodel"
)

const financePath = "/cws/finance"

var financeCollections = []store.Collection{
	store.Deliveries, store.Expenses, store.Revenues, store.LaborLogs, store.Seasons, store.Lots,
}

// seasonFilter reads ?season=. Blank selects the current season, "all"
// disables the filter.
func seasonFilter(r *http.Request, seasons []viewmodel.Season) (*int64, string) {
	raw := strings.TrimSpace(r.URL.Query().Get("season"))
	switch raw {
	case "":
		id := aggregate.CurrentSeasonID(seasons)
		return id, web.IDString(id)
	case "all":
		return nil, "all"
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		current := aggregate.CurrentSeasonID(seasons)
		return current, web.IDString(current)
	}
	return &id, raw
}

func seasonLabel(seasons []viewmodel.Season, id *int64) string {
	if id == nil {
		return "All seasons"
	}
	for _, s := range seasons {
		if s.ID == *id {
			return s.Name
		}
	}
	return fmt.Sprintf("Season %d", *id)
}

// statementFor builds everything the page and both exports show.
func statementFor(s *store.Store, seasonID *int64) Statement {
	in := s.Financials()
	seasons := s.Seasons()
	st := Statement{
		Season:     seasonLabel(seasons, seasonID),
		SeasonID:   seasonID,
		Summary:    aggregate.Financials(in, seasonID),
		BySeason:   aggregate.RevenueBySeason(in.Revenues, seasons),
		Categories: aggregate.ExpensesByCategory(in.Expenses, seasonID),
	}
	for _, e := range in.Expenses {
		if matches(e.SeasonID, seasonID) {
			st.Expenses = append(st.Expenses, e)
		}
	}
	for _, rv := range in.Revenues {
		if matches(rv.SeasonID, seasonID) {
			st.Revenues = append(st.Revenues, rv)
		}
	}
	for _, l := range in.Labor {
		if matches(l.SeasonID, seasonID) {
			st.Labor = append(st.Labor, l)
		}
	}
	for _, d := range in.Deliveries {
		if d.PaymentStatus != "paid" && matches(d.SeasonID, seasonID) {
			st.PendingPayments = append(st.PendingPayments, d)
		}
	}
	return st
}

func matches(id, filter *int64) bool {
	return filter == nil || (id != nil && *id == *filter)
}

func FinancePageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), financeCollections...)
		seasons := s.Seasons()
		seasonID, selected := seasonFilter(r, seasons)
		page := web.Page(r, session, "Finance", nav.ScreenFinance,
			store.Deliveries, store.Expenses, store.Revenues, store.LaborLogs)
		data := PageData{
			Loading:   s.Loading(store.Expenses) || s.Loading(store.Revenues),
			Statement: statementFor(s, seasonID),
			Seasons:   seasons,
			Lots:      s.Lots(),
			Selected:  selected,
		}
		web.Render(w, r, FinancePage(page, data), "finance page")
	}
}

func CreateExpenseCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, financePath, "invalid form data")
			return
		}
		in := backend.ExpenseInput{
			Category:    web.FormText(r, "category"),
			Description: web.FormText(r, "description"),
			Amount:      web.FormFloat(r, "amount"),
			ExpenseDate: web.FormText(r, "expense_date"),
			SeasonID:    web.FormID(r, "season_id"),
			LotID:       web.FormID(r, "lot_id"),
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, financePath, err.Error())
			return
		}

		created, err := web.API(client, session).CreateExpense(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "expense", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, financePath, backend.UserMessage(err, "failed to record expense"))
			return
		}
		s.Refresh(r.Context(), store.Expenses)
		web.Redirect(w, r, financePath, "expense recorded")
	}
}

// CreateRevenueCommandHandler records a sale; the amount is quantity times
// unit price.
func CreateRevenueCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, financePath, "invalid form data")
			return
		}
		in := backend.RevenueInput{
			Buyer:       web.FormText(r, "buyer"),
			QuantityKg:  web.FormFloat(r, "quantity_kg"),
			UnitPrice:   web.FormFloat(r, "unit_price"),
			RevenueDate: web.FormText(r, "revenue_date"),
			SeasonID:    web.FormID(r, "season_id"),
			LotID:       web.FormID(r, "lot_id"),
		}
		in.Amount = multiply(in.QuantityKg, in.UnitPrice)
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, financePath, err.Error())
			return
		}

		created, err := web.API(client, session).CreateRevenue(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "revenue", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, financePath, backend.UserMessage(err, "failed to record revenue"))
			return
		}
		s.Refresh(r.Context(), store.Revenues)
		web.Redirect(w, r, financePath, "revenue recorded")
	}
}

// CreateLaborCommandHandler records worker days; the amount is days times
// the daily rate.
func CreateLaborCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, financePath, "invalid form data")
			return
		}
		in := backend.LaborLogInput{
			WorkerName: web.FormText(r, "worker_name"),
			Task:       web.FormText(r, "task"),
			WorkDate:   web.FormText(r, "work_date"),
			Days:       web.FormFloat(r, "days"),
			DailyRate:  web.FormFloat(r, "daily_rate"),
			SeasonID:   web.FormID(r, "season_id"),
			LotID:      web.FormID(r, "lot_id"),
		}
		in.Amount = multiply(in.Days, in.DailyRate)
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, financePath, err.Error())
			return
		}

		created, err := web.API(client, session).CreateLaborLog(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "labor_log", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, financePath, backend.UserMessage(err, "failed to record labor"))
			return
		}
		s.Refresh(r.Context(), store.LaborLogs)
		web.Redirect(w, r, financePath, "labor recorded")
	}
}

func multiply(a, b float64) float64 {
	v, _ := decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).Float64()
	return v
}

// StatementPDFQueryHandler streams the profit and loss statement for the
// selected season as a PDF.
func StatementPDFQueryHandler(auditSvc *audit.Service) http.HandlerFunc {
	return statementExport(auditSvc, "pdf", "application/pdf", renderStatementPDF)
}

// StatementXLSXQueryHandler streams the same statement as a workbook.
func StatementXLSXQueryHandler(auditSvc *audit.Service) http.HandlerFunc {
	return statementExport(auditSvc, "xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", renderStatementXLSX)
}

func statementExport(auditSvc *audit.Service, ext, contentType string, render func(Statement, time.Time) ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), financeCollections...)
		seasonID, selected := seasonFilter(r, s.Seasons())
		st := statementFor(s, seasonID)

		out, err := render(st, time.Now())
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "export_statement", EntityType: "statement", EntityID: selected, Detail: map[string]string{"format": ext}, Err: err,
		})
		if err != nil {
			http.Error(w, "failed to build statement "+ext, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=statement-%s.%s", statementSlug(selected), ext))
		_, _ = w.Write(out)
	}
}

func statementSlug(selected string) string {
	if selected == "" {
		return "all"
	}
	return selected
}
