package compliance

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

const compliancePath = "/cws/compliance"

func CompliancePageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), store.QualityChecks, store.ComplianceChecks, store.Lots)
		page := web.Page(r, session, "Compliance", nav.ScreenCompliance, store.QualityChecks, store.ComplianceChecks)
		quality, sustainability := s.QualityChecks(), s.ComplianceChecks()
		data := PageData{
			Loading:        s.Loading(store.QualityChecks) || s.Loading(store.ComplianceChecks),
			Summary:        aggregate.SummarizeCompliance(quality, sustainability),
			Quality:        quality,
			Sustainability: sustainability,
			Lots:           s.Lots(),
		}
		web.Render(w, r, CompliancePage(page, data), "compliance page")
	}
}

// A CPQI sample is graded on a few hundred beans at most.
const maxDefects = 1000

// CreateQualityCheckCommandHandler records a CPQI check. The score is
// derived from the defect count, never typed in.
func CreateQualityCheckCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, compliancePath, "invalid form data")
			return
		}
		defects, err := strconv.Atoi(web.FormText(r, "defects_count"))
		if err != nil || defects < 0 || defects > maxDefects {
			web.RedirectError(w, r, compliancePath, "defects count must be a whole number from 0 to "+strconv.Itoa(maxDefects))
			return
		}
		score := aggregate.CPQIScore(defects)
		in := backend.ComplianceLogInput{
			Type:         "CPQI",
			Score:        float64(score),
			Status:       aggregate.CPQIStatus(score),
			DefectsCount: &defects,
			Notes:        web.FormText(r, "notes"),
		}
		if id := web.FormID(r, "lot_id"); id != nil {
			in.LotID = *id
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, compliancePath, err.Error())
			return
		}

		created, err := web.API(client, session).CreateComplianceLog(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "quality_check", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, compliancePath, backend.UserMessage(err, "failed to record quality check"))
			return
		}
		s.Refresh(r.Context(), store.QualityChecks)
		web.Redirect(w, r, compliancePath, "quality check recorded, CPQI "+strconv.Itoa(score))
	}
}

// CreateSustainabilityCheckCommandHandler records a CPSI check from the
// three assessed levels.
func CreateSustainabilityCheckCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, compliancePath, "invalid form data")
			return
		}
		ppe, okPPE := aggregate.ParseLevel(r.FormValue("ppe_level"))
		wastewater, okWater := aggregate.ParseLevel(r.FormValue("wastewater_level"))
		labor, okLabor := aggregate.ParseLevel(r.FormValue("labor_level"))
		if !okPPE || !okWater || !okLabor {
			web.RedirectError(w, r, compliancePath, "every level must be compliant, needs-improvement or non-compliant")
			return
		}
		score, status := aggregate.CPSI(ppe, wastewater, labor)
		in := backend.ComplianceLogInput{
			Type:            "CPSI",
			Score:           score,
			Status:          status,
			PPELevel:        string(ppe),
			WastewaterLevel: string(wastewater),
			LaborLevel:      string(labor),
			Notes:           web.FormText(r, "notes"),
		}
		if id := web.FormID(r, "lot_id"); id != nil {
			in.LotID = *id
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, compliancePath, err.Error())
			return
		}

		created, err := web.API(client, session).CreateComplianceLog(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "sustainability_check", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, compliancePath, backend.UserMessage(err, "failed to record sustainability check"))
			return
		}
		s.Refresh(r.Context(), store.ComplianceChecks)
		web.Redirect(w, r, compliancePath, "sustainability check recorded, "+status)
	}
}
