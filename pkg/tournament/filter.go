package tournament

import (
	"sort"

	"github.com/chess-tournament-radar/backend/pkg/geo"
	"github.com/chess-tournament-radar/backend/pkg/models"
)

const (
	// StateAll is the sentinel state filter matching every event.
	StateAll = "all"

	// SearchRadiusMiles is the fixed cutoff for city-based filtering.
	SearchRadiusMiles = 100.0
)

// VisibleEvents produces the visible, sorted event list from the full list,
// the selected state, and an optional city anchor. Pure function: inputs are
// never mutated, output records are newly constructed.
//
// With an anchor, each surviving event carries its distance in miles and
// events beyond the search radius are dropped. Without one, distances are nil
// and nothing is dropped on that basis. The result is sorted ascending by
// start date; the sort is stable so equal dates keep their original order.
func VisibleEvents(all []models.Event, selectedState string, anchor *models.CityAnchor) []models.VisibleEvent {
	visible := make([]models.VisibleEvent, 0, len(all))
	for _, event := range all {
		if selectedState != StateAll && event.State != selectedState {
			continue
		}
		var distance *float64
		if anchor != nil {
			miles := geo.Miles(anchor.Lat, anchor.Lon, event.Lat, event.Lon)
			if miles > SearchRadiusMiles {
				continue
			}
			distance = &miles
		}
		visible = append(visible, models.VisibleEvent{Event: event, Distance: distance})
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].StartDate < visible[j].StartDate
	})
	return visible
}

// States returns the sorted distinct state codes present in the event list,
// used to populate the state filter options.
func States(all []models.Event) []string {
	seen := map[string]bool{}
	var states []string
	for _, event := range all {
		if event.State != "" && !seen[event.State] {
			seen[event.State] = true
			states = append(states, event.State)
		}
	}
	sort.Strings(states)
	return states
}
