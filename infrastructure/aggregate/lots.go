package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"cwsdash/infrastructure/viewmodel"
)

// Stages in processing order.
var Stages = []string{"received", "pulped", "fermented", "washed", "dried", "stored"}

const (
	LotCreated   = "created"
	LotInProcess = "in_process"
	LotCompleted = "completed"
	LotCancelled = "cancelled"
)

var lotStatusRank = map[string]int{
	LotCreated:   0,
	LotInProcess: 1,
	LotCompleted: 2,
}

// CanAdvanceLot allows created → in_process → completed, and cancelling an
// unfinished lot. Completed and cancelled lots are final.
func CanAdvanceLot(from, to string) bool {
	if from == to {
		return false
	}
	if from == LotCompleted || from == LotCancelled {
		return false
	}
	if to == LotCancelled {
		return true
	}
	fromRank, okFrom := lotStatusRank[from]
	toRank, okTo := lotStatusRank[to]
	return okFrom && okTo && toRank > fromRank
}

func stageRank(stage string) int {
	for i, s := range Stages {
		if s == stage {
			return i
		}
	}
	return len(Stages)
}

// EnrichLots joins lots against deliveries (total weight) and processing
// logs (timeline). The transform leaves both fields empty.
func EnrichLots(lots []viewmodel.Lot, deliveries []viewmodel.Delivery, logs []viewmodel.ProcessingLog) []viewmodel.Lot {
	weights := make(map[int64]decimal.Decimal)
	for _, d := range deliveries {
		if d.LotID == nil {
			continue
		}
		prev, ok := weights[*d.LotID]
		if !ok {
			prev = decimal.Zero
		}
		weights[*d.LotID] = prev.Add(decimal.NewFromFloat(d.Weight))
	}
	timelines := make(map[int64][]viewmodel.TimelineEntry)
	for _, l := range logs {
		timelines[l.LotID] = append(timelines[l.LotID], viewmodel.TimelineEntry{
			Stage:    l.Stage,
			LoggedAt: l.LoggedAt,
			Operator: l.Operator,
			Notes:    l.Notes,
		})
	}

	out := make([]viewmodel.Lot, 0, len(lots))
	for _, lot := range lots {
		if w, ok := weights[lot.ID]; ok {
			lot.TotalWeight = toFloat(w)
		}
		timeline := timelines[lot.ID]
		sort.SliceStable(timeline, func(i, j int) bool {
			ri, rj := stageRank(timeline[i].Stage), stageRank(timeline[j].Stage)
			if ri != rj {
				return ri < rj
			}
			return timeline[i].LoggedAt.Before(timeline[j].LoggedAt)
		})
		lot.Timeline = timeline
		out = append(out, lot)
	}
	return out
}

// NextStage is the first stage after the furthest one already logged.
func NextStage(timeline []viewmodel.TimelineEntry) (string, bool) {
	furthest := -1
	for _, e := range timeline {
		if r := stageRank(e.Stage); r < len(Stages) && r > furthest {
			furthest = r
		}
	}
	if furthest+1 >= len(Stages) {
		return "", false
	}
	return Stages[furthest+1], true
}

func FindLot(lots []viewmodel.Lot, id int64) (viewmodel.Lot, bool) {
	for _, l := range lots {
		if l.ID == id {
			return l, true
		}
	}
	return viewmodel.Lot{}, false
}
