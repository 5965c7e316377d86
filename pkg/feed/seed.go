package feed

import "github.com/chess-tournament-radar/backend/pkg/models"

// SeededEvents returns the bundled fallback dataset served when the feed is
// unavailable: 10 events across 4 states with real coordinates.
func SeededEvents() []models.Event {
	return []models.Event{
		{
			Id:          "seed-dallas-open-2026-09-12",
			Name:        "Dallas Fall Open",
			StartDate:   "2026-09-12",
			EndDate:     "2026-09-13",
			City:        "Dallas",
			State:       "TX",
			Venue:       "Dallas Chess Club",
			Lat:         32.7767,
			Lon:         -96.7970,
			Format:      "5SS",
			TimeControl: "G/90;d5",
			EntryFee:    "$65",
			Sections:    []string{"Open", "U1800", "U1400"},
			SourceId:    "uschess-upcoming",
			SourceUrl:   "https://new.uschess.org/upcoming-tournaments",
		},
		{
			Id:          "seed-fort-worth-classic-2026-10-03",
			Name:        "Fort Worth Classic",
			StartDate:   "2026-10-03",
			EndDate:     "2026-10-04",
			City:        "Fort Worth",
			State:       "TX",
			Lat:         32.7555,
			Lon:         -97.3308,
			Format:      "4SS",
			TimeControl: "G/60;d5",
			EntryFee:    "$45",
			SourceId:    "uschess-upcoming",
			SourceUrl:   "https://new.uschess.org/upcoming-tournaments",
		},
		{
			Id:          "seed-houston-masters-2026-10-03",
			Name:        "Houston Masters Invitational",
			StartDate:   "2026-10-03",
			EndDate:     "2026-10-05",
			City:        "Houston",
			State:       "TX",
			Lat:         29.7604,
			Lon:         -95.3698,
			Format:      "RR",
			TimeControl: "G/120;d10",
			SourceId:    "uschess-upcoming",
			SourceUrl:   "https://new.uschess.org/upcoming-tournaments",
		},
		{
			Id:          "seed-austin-scholastic-2026-09-26",
			Name:        "Austin Scholastic Championship",
			StartDate:   "2026-09-26",
			EndDate:     "2026-09-26",
			City:        "Austin",
			State:       "TX",
			Lat:         30.2672,
			Lon:         -97.7431,
			Format:      "5SS",
			TimeControl: "G/30;d5",
			EntryFee:    "$25",
			Sections:    []string{"K-12", "K-8", "K-5"},
			SourceId:    "uschess-upcoming",
			SourceUrl:   "https://new.uschess.org/upcoming-tournaments",
		},
		{
			Id:          "seed-detroit-open-2026-09-12",
			Name:        "Motor City Open",
			StartDate:   "2026-09-12",
			EndDate:     "2026-09-13",
			City:        "Detroit",
			State:       "MI",
			Lat:         42.3314,
			Lon:         -83.0458,
			Format:      "5SS",
			TimeControl: "G/90;d5",
			EntryFee:    "$60",
			SourceId:    "michess",
			SourceUrl:   "https://www.michess.org/events",
		},
		{
			Id:          "seed-grand-rapids-swiss-2026-11-07",
			Name:        "Grand Rapids November Swiss",
			StartDate:   "2026-11-07",
			EndDate:     "2026-11-08",
			City:        "Grand Rapids",
			State:       "MI",
			Lat:         42.9634,
			Lon:         -85.6681,
			Format:      "4SS",
			TimeControl: "G/60;d5",
			SourceId:    "michess",
			SourceUrl:   "https://www.michess.org/events",
		},
		{
			Id:          "seed-manhattan-open-2026-09-19",
			Name:        "Manhattan Open",
			StartDate:   "2026-09-19",
			EndDate:     "2026-09-20",
			City:        "New York",
			State:       "NY",
			Venue:       "Marshall Chess Club",
			Lat:         40.7128,
			Lon:         -74.0060,
			Format:      "5SS",
			TimeControl: "G/90;d5",
			EntryFee:    "$95",
			Sections:    []string{"Open", "U2000"},
			SourceId:    "chess-events-aggregator",
			SourceUrl:   "https://chessevents.com",
		},
		{
			Id:          "seed-albany-quads-2026-10-17",
			Name:        "Albany October Quads",
			StartDate:   "2026-10-17",
			EndDate:     "2026-10-17",
			City:        "Albany",
			State:       "NY",
			Lat:         42.6526,
			Lon:         -73.7562,
			Format:      "3RR",
			TimeControl: "G/45;d5",
			EntryFee:    "$30",
			SourceId:    "chess-events-aggregator",
			SourceUrl:   "https://chessevents.com",
		},
		{
			Id:          "seed-la-championship-2026-09-05",
			Name:        "Los Angeles City Championship",
			StartDate:   "2026-09-05",
			EndDate:     "2026-09-07",
			City:        "Los Angeles",
			State:       "CA",
			Lat:         34.0522,
			Lon:         -118.2437,
			Format:      "6SS",
			TimeControl: "G/120;d10",
			EntryFee:    "$85",
			SourceId:    "uschess-upcoming",
			SourceUrl:   "https://new.uschess.org/upcoming-tournaments",
		},
		{
			Id:          "seed-sf-rapid-2026-10-24",
			Name:        "San Francisco Rapid Challenge",
			StartDate:   "2026-10-24",
			EndDate:     "2026-10-24",
			City:        "San Francisco",
			State:       "CA",
			Lat:         37.7749,
			Lon:         -122.4194,
			Format:      "7SS",
			TimeControl: "G/15;d3",
			EntryFee:    "$40",
			SourceId:    "chess-events-aggregator",
			SourceUrl:   "https://chessevents.com",
		},
	}
}
