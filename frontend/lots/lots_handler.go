package lots

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/validate"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/config"
	"cwsdash/infrastructure/store"
	"cwsdash/infrastructure/viewmodel"
)

const lotsPath = "/cws/lots"

func lotPath(id int64) string {
	return lotsPath + "/" + strconv.FormatInt(id, 10)
}

func LotsPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), store.Lots, store.Deliveries, store.ProcessingLogs, store.Seasons)
		page := web.Page(r, session, "Lots", nav.ScreenLots, store.Lots, store.ProcessingLogs)
		seasons := s.Seasons()
		web.Render(w, r, LotsPage(page, s.Loading(store.Lots), s.EnrichedLots(), seasons, aggregate.CurrentSeasonID(seasons)), "lots page")
	}
}

// LotDetailPageQueryHandler shows one lot with its processing timeline,
// the deliveries poured into it and its compliance checks.
func LotDetailPageQueryHandler(client *backend.Client, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		id, ok := web.URLID(r, "id")
		if !ok {
			web.RedirectError(w, r, lotsPath, "invalid lot id")
			return
		}
		s.Ensure(r.Context(), store.Lots, store.Deliveries, store.ProcessingLogs)
		lot, found := aggregate.FindLot(s.EnrichedLots(), id)
		if !found {
			if s.Loading(store.Lots) {
				web.Redirect(w, r, lotsPath, "lots are still loading")
				return
			}
			http.NotFound(w, r)
			return
		}

		data := DetailData{Lot: lot}
		for _, d := range s.Deliveries() {
			if d.LotID != nil && *d.LotID == id {
				data.Deliveries = append(data.Deliveries, d)
			}
		}
		data.Checks = checksForLot(r.Context(), web.API(client, session), s, id, logger)
		data.NextStage, data.CanLogStage = aggregate.NextStage(lot.Timeline)
		if lot.StatusCode == aggregate.LotCompleted || lot.StatusCode == aggregate.LotCancelled {
			data.CanLogStage = false
		}
		for _, to := range []string{aggregate.LotInProcess, aggregate.LotCompleted, aggregate.LotCancelled} {
			if aggregate.CanAdvanceLot(lot.StatusCode, to) {
				data.Transitions = append(data.Transitions, to)
			}
		}

		page := web.Page(r, session, "Lot "+lot.LotName, nav.ScreenLots, store.Lots, store.ProcessingLogs, store.Deliveries)
		web.Render(w, r, LotDetailPage(page, data), "lot detail page")
	}
}

// checksForLot asks the backend for the lot's compliance logs. When that
// fails it falls back to whatever the session store already holds.
func checksForLot(ctx context.Context, api *backend.API, s *store.Store, lotID int64, logger *logrus.Logger) []viewmodel.ComplianceCheck {
	logs, err := api.ListComplianceLogs(ctx, &lotID)
	if err != nil {
		config.LogError(logger, "lots", "checksForLot", "list compliance logs", lotID, err)
		return append(lotChecks(s.QualityChecks(), lotID), lotChecks(s.ComplianceChecks(), lotID)...)
	}
	out := make([]viewmodel.ComplianceCheck, 0, len(logs))
	for _, l := range logs {
		out = append(out, viewmodel.FromComplianceLog(l))
	}
	return out
}

func lotChecks(checks []viewmodel.ComplianceCheck, lotID int64) []viewmodel.ComplianceCheck {
	var out []viewmodel.ComplianceCheck
	for _, c := range checks {
		if c.LotID == lotID {
			out = append(out, c)
		}
	}
	return out
}

func CreateLotCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, lotsPath, "invalid form data")
			return
		}
		in := backend.LotInput{
			LotName:          web.FormText(r, "lot_name"),
			ProcessingMethod: strings.ToLower(web.FormText(r, "processing_method")),
			Grade:            web.FormText(r, "grade"),
			Status:           aggregate.LotCreated,
			SeasonID:         web.FormID(r, "season_id"),
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, lotsPath, err.Error())
			return
		}

		created, err := web.API(client, session).CreateLot(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "lot", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, lotsPath, backend.UserMessage(err, "failed to create lot"))
			return
		}
		s.Refresh(r.Context(), store.Lots)
		web.Redirect(w, r, lotsPath, "lot created")
	}
}

// UpdateLotStatusCommandHandler moves a lot forward. Lots never move back
// and completed or cancelled lots are final.
func UpdateLotStatusCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		id, ok := web.URLID(r, "id")
		if !ok {
			web.RedirectError(w, r, lotsPath, "invalid lot id")
			return
		}
		back := lotPath(id)
		lot, found := aggregate.FindLot(s.Lots(), id)
		if !found {
			web.RedirectError(w, r, lotsPath, "lot not found")
			return
		}
		in := backend.LotStatusUpdate{Status: strings.ToLower(web.FormText(r, "status"))}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, back, err.Error())
			return
		}
		if !aggregate.CanAdvanceLot(lot.StatusCode, in.Status) {
			web.RedirectError(w, r, back, "lot is "+lot.Status+" and cannot become "+strings.ReplaceAll(in.Status, "_", " "))
			return
		}

		_, err := web.API(client, session).UpdateLotStatus(r.Context(), id, in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "update_status", EntityType: "lot", EntityID: strconv.FormatInt(id, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, back, backend.UserMessage(err, "failed to update lot"))
			return
		}
		s.Refresh(r.Context(), store.Lots)
		web.Redirect(w, r, back, "lot status updated")
	}
}

// LogStageCommandHandler appends the next processing stage to a lot's
// timeline. The first stage logged on a new lot puts it in process.
func LogStageCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		id, ok := web.URLID(r, "id")
		if !ok {
			web.RedirectError(w, r, lotsPath, "invalid lot id")
			return
		}
		back := lotPath(id)
		lot, found := aggregate.FindLot(s.EnrichedLots(), id)
		if !found {
			web.RedirectError(w, r, lotsPath, "lot not found")
			return
		}
		if lot.StatusCode == aggregate.LotCompleted || lot.StatusCode == aggregate.LotCancelled {
			web.RedirectError(w, r, back, "lot is "+lot.Status+" and cannot be processed further")
			return
		}

		in := backend.ProcessingLogInput{
			LotID:    id,
			Stage:    strings.ToLower(web.FormText(r, "stage")),
			LoggedAt: web.FormText(r, "logged_at"),
			Notes:    web.FormText(r, "notes"),
		}
		if in.LoggedAt == "" {
			in.LoggedAt = time.Now().UTC().Format(time.RFC3339)
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, back, err.Error())
			return
		}
		next, more := aggregate.NextStage(lot.Timeline)
		if !more {
			web.RedirectError(w, r, back, "all processing stages are already logged")
			return
		}
		if in.Stage != next {
			web.RedirectError(w, r, back, "next stage must be "+next)
			return
		}

		api := web.API(client, session)
		created, err := api.CreateProcessingLog(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "log_stage", EntityType: "processing_log", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, back, backend.UserMessage(err, "failed to log stage"))
			return
		}
		refresh := []store.Collection{store.ProcessingLogs}
		if lot.StatusCode == aggregate.LotCreated {
			if _, err := api.UpdateLotStatus(r.Context(), id, backend.LotStatusUpdate{Status: aggregate.LotInProcess}); err != nil {
				web.RedirectError(w, r, back, backend.UserMessage(err, "stage logged but the lot status was not updated"))
				return
			}
			refresh = append(refresh, store.Lots)
		}
		s.Refresh(r.Context(), refresh...)
		web.Redirect(w, r, back, in.Stage+" logged")
	}
}
