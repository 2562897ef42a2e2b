package aggregate

import "cwsdash/infrastructure/viewmodel"

// CurrentSeason picks the first active season, else the first season. The
// single-active invariant belongs to the backend and is not checked here.
func CurrentSeason(seasons []viewmodel.Season) (viewmodel.Season, bool) {
	for _, s := range seasons {
		if s.Active {
			return s, true
		}
	}
	if len(seasons) > 0 {
		return seasons[0], true
	}
	return viewmodel.Season{}, false
}

// CurrentSeasonID is CurrentSeason as a filter pointer; nil means all seasons.
func CurrentSeasonID(seasons []viewmodel.Season) *int64 {
	s, ok := CurrentSeason(seasons)
	if !ok {
		return nil
	}
	id := s.ID
	return &id
}

func inSeason(seasonID, filter *int64) bool {
	if filter == nil {
		return true
	}
	return seasonID != nil && *seasonID == *filter
}
