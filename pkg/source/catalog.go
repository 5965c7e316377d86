package source

import "github.com/chess-tournament-radar/backend/pkg/models"

// Unknown is returned for events whose sourceId is not in the catalog.
// An unknown source is not a validation failure; the listing still renders.
var Unknown = models.Source{
	Id:       "unknown",
	Name:     "Unknown source",
	Homepage: "",
	Category: "unknown",
}

// Catalog returns the static source catalog. Defined at build time, never
// mutated at runtime.
func Catalog() []models.Source {
	return []models.Source{
		{
			Id:       "uschess-upcoming",
			Name:     "US Chess Upcoming Tournaments",
			Homepage: "https://new.uschess.org/upcoming-tournaments",
			Category: "federation",
		},
		{
			Id:       "michess",
			Name:     "Michigan Chess Association",
			Homepage: "https://www.michess.org",
			Category: "association",
		},
		{
			Id:       "chess-events-aggregator",
			Name:     "Chess Events Aggregator",
			Homepage: "https://chessevents.com",
			Category: "aggregator",
		},
	}
}

// ByID looks up a catalog entry, falling back to Unknown.
func ByID(id string) models.Source {
	for _, s := range Catalog() {
		if s.Id == id {
			return s
		}
	}
	return Unknown
}
