package lots

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/viewmodel"
)

var methodOptions = []html.Option{
	{Value: "washed", Label: "Washed"},
	{Value: "natural", Label: "Natural"},
	{Value: "honey", Label: "Honey"},
}

func LotsPage(page html.Page, loading bool, lots []viewmodel.Lot, seasons []viewmodel.Season, seasonID *int64) templ.Component {
	rows := make([][]templ.Component, 0, len(lots))
	for _, l := range lots {
		stage := "not started"
		if n := len(l.Timeline); n > 0 {
			stage = l.Timeline[n-1].Stage
		}
		rows = append(rows, []templ.Component{
			html.Link(lotPath(l.ID), l.LotName),
			html.Text(l.ProcessingMethod),
			html.Text(l.Grade),
			html.Badge(l.Status),
			html.Text(stage),
			html.Text(html.Kg(l.TotalWeight)),
		})
	}
	return html.Layout(page,
		html.Section("New lot", html.Form("post", lotsPath, "Create lot",
			html.Field{Label: "Lot name", Name: "lot_name", Required: true},
			html.Field{Label: "Processing method", Name: "processing_method", Type: "select", Options: methodOptions, Value: "washed"},
			html.Field{Label: "Grade", Name: "grade"},
			html.Field{Label: "Season", Name: "season_id", Type: "select", Options: web.SeasonOptions(seasons), Value: web.IDString(seasonID)},
		)),
		html.Section("Lots", html.State(loading, len(lots), html.Table(
			[]string{"Lot", "Method", "Grade", "Status", "Stage", "Cherry"},
			rows, "No lots yet.",
		))),
	)
}

type DetailData struct {
	Lot         viewmodel.Lot
	Deliveries  []viewmodel.Delivery
	Checks      []viewmodel.ComplianceCheck
	NextStage   string
	CanLogStage bool
	Transitions []string
}

func LotDetailPage(page html.Page, data DetailData) templ.Component {
	lot := data.Lot
	action := lotPath(lot.ID)

	timeline := make([][]templ.Component, 0, len(lot.Timeline))
	for _, e := range lot.Timeline {
		timeline = append(timeline, []templ.Component{
			html.Badge(e.Stage),
			html.Text(e.LoggedAt.Format("2006-01-02 15:04")),
			html.Text(e.Operator),
			html.Text(e.Notes),
		})
	}

	deliveries := make([][]templ.Component, 0, len(data.Deliveries))
	for _, d := range data.Deliveries {
		deliveries = append(deliveries, []templ.Component{
			html.Text(d.Date),
			html.Text(d.FarmerName),
			html.Text(html.Kg(d.Weight)),
			html.Text(html.Money(d.TotalAmount)),
		})
	}

	checks := make([][]templ.Component, 0, len(data.Checks))
	for _, c := range data.Checks {
		checks = append(checks, []templ.Component{
			html.Text(c.Type),
			html.Text(c.Date),
			html.Text(html.Number(c.Score)),
			html.Badge(c.Status),
		})
	}

	var buttons []templ.Component
	for _, to := range data.Transitions {
		label := "Mark " + strings.ReplaceAll(to, "_", " ")
		buttons = append(buttons, html.PostButton(action+"/status", label, html.Field{Name: "status", Value: to}))
	}

	stageSection := html.Text("All stages logged.")
	if data.CanLogStage {
		stageSection = html.Form("post", action+"/stages", "Log "+data.NextStage,
			html.Field{Name: "stage", Type: "hidden", Value: data.NextStage},
			html.Field{Label: "Notes", Name: "notes", Type: "textarea"},
		)
	} else if lot.StatusCode == aggregate.LotCompleted || lot.StatusCode == aggregate.LotCancelled {
		stageSection = html.Text("This lot is " + lot.Status + ".")
	}

	return html.Layout(page,
		html.Stats(
			html.Stat{Label: "Status", Value: lot.Status},
			html.Stat{Label: "Method", Value: lot.ProcessingMethod},
			html.Stat{Label: "Grade", Value: lot.Grade},
			html.Stat{Label: "Cherry", Value: html.Kg(lot.TotalWeight)},
			html.Stat{Label: "Deliveries", Value: strconv.Itoa(len(data.Deliveries))},
		),
		html.Section("Status", buttons...),
		html.Section("Processing timeline",
			html.Table([]string{"Stage", "Logged", "Operator", "Notes"}, timeline, "No stage logged yet."),
			stageSection,
		),
		html.Section("Deliveries", html.Table([]string{"Date", "Farmer", "Weight", "Value"}, deliveries, "No deliveries assigned to this lot.")),
		html.Section("Compliance", html.Table([]string{"Type", "Date", "Score", "Status"}, checks, "No compliance checks for this lot.")),
		html.Link(lotsPath, "Back to lots"),
	)
}
