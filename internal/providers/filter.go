package providers

import (
	"sort"

	"flight-aggregator/internal/domain"
)

// applyStopsFilterAndSort implements spec §4.6's per-adapter
// post-mapping step: if non_stop_only, drop stops > 0; else if
// max_stops is set, drop stops > max_stops; then sort the survivors by
// price ascending.
func applyStopsFilterAndSort(flights []domain.Flight, criteria domain.SearchCriteria) []domain.Flight {
	filtered := flights[:0:0]
	for _, f := range flights {
		if criteria.NonStopOnly {
			if f.Stops > 0 {
				continue
			}
		} else if criteria.MaxStops != nil {
			if f.Stops > *criteria.MaxStops {
				continue
			}
		}
		filtered = append(filtered, f)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		less, err := filtered[i].Price.LessThan(filtered[j].Price)
		if err != nil {
			return false
		}
		return less
	})
	return filtered
}
