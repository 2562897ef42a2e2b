package web

import (
	"strconv"

	"cwsdash/frontend/shared/html"
	"cwsdash/infrastructure/viewmodel"
)

func FarmerOptions(farmers []viewmodel.Farmer) []html.Option {
	out := []html.Option{{Value: "", Label: "Select farmer"}}
	for _, f := range farmers {
		out = append(out, html.Option{Value: strconv.FormatInt(f.ID, 10), Label: f.Name})
	}
	return out
}

// SeasonOptions starts with a blank "no season" entry.
func SeasonOptions(seasons []viewmodel.Season) []html.Option {
	out := []html.Option{{Value: "", Label: "No season"}}
	for _, s := range seasons {
		label := s.Name
		if s.Active {
			label += " (active)"
		}
		out = append(out, html.Option{Value: strconv.FormatInt(s.ID, 10), Label: label})
	}
	return out
}

func LotOptions(lots []viewmodel.Lot, blank string) []html.Option {
	out := []html.Option{{Value: "", Label: blank}}
	for _, l := range lots {
		out = append(out, html.Option{Value: strconv.FormatInt(l.ID, 10), Label: l.LotName})
	}
	return out
}

// IDString formats an optional id for a form value.
func IDString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
