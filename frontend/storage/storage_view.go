package storage

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"cwsdash/frontend/shared/html"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/viewmodel"
)

type PageData struct {
	Loading    bool
	Available  []viewmodel.StorageBag
	Dispatched []viewmodel.StorageBag
	Lots       []viewmodel.Lot
}

func StoragePage(page html.Page, data PageData) templ.Component {
	var storedKg float64
	queue := make([][]templ.Component, 0, len(data.Available))
	for i, b := range data.Available {
		storedKg += b.Weight
		action := html.Text("")
		if i == 0 {
			action = html.PostButton(storagePath+"/"+strconv.FormatInt(b.ID, 10)+"/dispatch", "Dispatch")
		}
		queue = append(queue, []templ.Component{
			html.Text(strconv.Itoa(i + 1)),
			html.Text(b.BagCode),
			html.Text(b.LotName),
			html.Text(html.Kg(b.Weight)),
			html.Text(html.Percent(b.Moisture)),
			html.Text(b.StoredDate),
			html.Link(storagePath+"/"+strconv.FormatInt(b.ID, 10)+"/label", "Label"),
			action,
		})
	}

	dispatched := make([][]templ.Component, 0, len(data.Dispatched))
	for _, b := range data.Dispatched {
		dispatched = append(dispatched, []templ.Component{
			html.Text(b.BagCode),
			html.Text(b.LotName),
			html.Text(html.Kg(b.Weight)),
			html.Text(b.StoredDate),
			html.Text(b.DispatchedAt),
		})
	}

	head := "none"
	if len(data.Available) > 0 {
		head = data.Available[0].BagCode
	}
	return html.Layout(page,
		html.Stats(
			html.Stat{Label: "Bags in storage", Value: strconv.Itoa(len(data.Available))},
			html.Stat{Label: "Parchment stored", Value: html.Kg(storedKg)},
			html.Stat{Label: "Next to dispatch", Value: head},
			html.Stat{Label: "Dispatched", Value: strconv.Itoa(len(data.Dispatched))},
		),
		html.Section("Store bag", html.Form("post", storagePath, "Store",
			html.Field{Label: "Lot", Name: "lot_id", Type: "select", Options: web.LotOptions(data.Lots, "Select lot"), Required: true},
			html.Field{Label: "Bag code", Name: "bag_code", Required: true},
			html.Field{Label: "Weight (kg)", Name: "weight_kg", Type: "number", Step: "0.01", Required: true},
			html.Field{Label: "Moisture (%)", Name: "moisture", Type: "number", Step: "0.1"},
			html.Field{Label: "Stored on", Name: "stored_date", Type: "date", Value: time.Now().Format("2006-01-02"), Required: true},
		)),
		html.Section("Dispatch queue (oldest first)",
			html.State(data.Loading, len(data.Available), html.Table(
				[]string{"#", "Bag", "Lot", "Weight", "Moisture", "Stored", "", ""},
				queue, "No bags in storage.",
			)),
			html.Link(storagePath+"/labels", "Print all labels"),
		),
		html.Section("Dispatched", html.Table(
			[]string{"Bag", "Lot", "Weight", "Stored", "Dispatched"},
			dispatched, "Nothing dispatched yet.",
		)),
	)
}
