package aggregate

import (
	"sort"

	"cwsdash/infrastructure/viewmodel"
)

// AvailableBags returns undispatched bags oldest first. Bags without a
// stored date queue last; ties keep ID order.
func AvailableBags(bags []viewmodel.StorageBag) []viewmodel.StorageBag {
	out := make([]viewmodel.StorageBag, 0, len(bags))
	for _, b := range bags {
		if !b.Dispatched {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		iz, jz := out[i].StoredAt.IsZero(), out[j].StoredAt.IsZero()
		if iz != jz {
			return jz
		}
		if !out[i].StoredAt.Equal(out[j].StoredAt) {
			return out[i].StoredAt.Before(out[j].StoredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// NextToDispatch is the head of the FIFO queue.
func NextToDispatch(bags []viewmodel.StorageBag) (viewmodel.StorageBag, bool) {
	available := AvailableBags(bags)
	if len(available) == 0 {
		return viewmodel.StorageBag{}, false
	}
	return available[0], true
}

// DispatchedBags returns bags already shipped, most recent first.
func DispatchedBags(bags []viewmodel.StorageBag) []viewmodel.StorageBag {
	out := make([]viewmodel.StorageBag, 0)
	for _, b := range bags {
		if b.Dispatched {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DispatchedAt > out[j].DispatchedAt
	})
	return out
}
