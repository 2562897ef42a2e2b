package compliance

import (
	"strconv"

	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/viewmodel"
)

type PageData struct {
	Loading        bool
	Summary        aggregate.ComplianceSummary
	Quality        []viewmodel.ComplianceCheck
	Sustainability []viewmodel.ComplianceCheck
	Lots           []viewmodel.Lot
}

var levelOptions = []html.Option{
	{Value: string(aggregate.LevelCompliant), Label: "Compliant"},
	{Value: string(aggregate.LevelNeedsImprovement), Label: "Needs improvement"},
	{Value: string(aggregate.LevelNonCompliant), Label: "Non-compliant"},
}

func CompliancePage(page html.Page, data PageData) templ.Component {
	quality := make([][]templ.Component, 0, len(data.Quality))
	for _, c := range data.Quality {
		quality = append(quality, []templ.Component{
			html.Text(c.Date),
			html.Text(c.LotName),
			html.Text(strconv.Itoa(c.DefectsCount)),
			html.Text(html.Number(c.Score)),
			html.Badge(c.Status),
			html.Text(c.Notes),
		})
	}
	sustainability := make([][]templ.Component, 0, len(data.Sustainability))
	for _, c := range data.Sustainability {
		sustainability = append(sustainability, []templ.Component{
			html.Text(c.Date),
			html.Text(c.LotName),
			html.Text(c.PPELevel),
			html.Text(c.WastewaterLevel),
			html.Text(c.LaborLevel),
			html.Text(html.Number(c.Score)),
			html.Badge(c.Status),
		})
	}

	sum := data.Summary
	lots := web.LotOptions(data.Lots, "Select lot")
	return html.Layout(page,
		html.Stats(
			html.Stat{Label: "Quality checks", Value: strconv.Itoa(sum.QualityChecks)},
			html.Stat{Label: "Compliant (CPQI ≥ 80)", Value: strconv.Itoa(sum.QualityCompliant)},
			html.Stat{Label: "Average CPQI", Value: html.Number(sum.AverageQuality)},
			html.Stat{Label: "Sustainability checks", Value: strconv.Itoa(sum.SustainabilityChecks)},
			html.Stat{Label: "Average CPSI", Value: html.Number(sum.AverageSustainability)},
		),
		html.Section("Quality check (CPQI)", html.Form("post", compliancePath+"/quality", "Record quality check",
			html.Field{Label: "Lot", Name: "lot_id", Type: "select", Options: lots, Required: true},
			html.Field{Label: "Defects found", Name: "defects_count", Type: "number", Step: "1", Value: "0", Required: true},
			html.Field{Label: "Notes", Name: "notes", Type: "textarea"},
		)),
		html.Section("Sustainability check (CPSI)", html.Form("post", compliancePath+"/sustainability", "Record sustainability check",
			html.Field{Label: "Lot", Name: "lot_id", Type: "select", Options: lots, Required: true},
			html.Field{Label: "PPE", Name: "ppe_level", Type: "select", Options: levelOptions},
			html.Field{Label: "Wastewater", Name: "wastewater_level", Type: "select", Options: levelOptions},
			html.Field{Label: "Labor", Name: "labor_level", Type: "select", Options: levelOptions},
			html.Field{Label: "Notes", Name: "notes", Type: "textarea"},
		)),
		html.Section("Quality checks", html.State(data.Loading, len(data.Quality), html.Table(
			[]string{"Date", "Lot", "Defects", "CPQI", "Status", "Notes"}, quality, "No quality checks yet.",
		))),
		html.Section("Sustainability checks", html.State(data.Loading, len(data.Sustainability), html.Table(
			[]string{"Date", "Lot", "PPE", "Wastewater", "Labor", "CPSI", "Status"}, sustainability, "No sustainability checks yet.",
		))),
	)
}
