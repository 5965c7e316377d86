package models

import "time"

// Event is one tournament listing as published by the daily feed.
// Dates are ISO calendar dates ("2026-03-14"), which sort lexicographically.
type Event struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Venue       string   `json:"venue,omitempty"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Format      string   `json:"format,omitempty"`
	TimeControl string   `json:"timeControl,omitempty"`
	EntryFee    string   `json:"entryFee,omitempty"`
	Sections    []string `json:"sections,omitempty"`
	Organizer   string   `json:"organizer,omitempty"`
	Description string   `json:"description,omitempty"`
	SourceId    string   `json:"sourceId"`
	SourceUrl   string   `json:"sourceUrl"`
}

// VisibleEvent is the filter pipeline output: the event plus its distance in
// miles from the current city anchor. Distance is nil when no anchor is set.
type VisibleEvent struct {
	Event
	Distance *float64 `json:"distance"`
}

// Source is a static catalog entry describing a data origin.
type Source struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Homepage string `json:"homepage"`
	Category string `json:"category"`
}

// CityAnchor is the user's chosen reference point for distance filtering.
type CityAnchor struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// FeedSnapshot is the cached copy of the feed.
type FeedSnapshot struct {
	Events   []Event   `json:"events"`
	SyncedAt time.Time `json:"syncedAt"`
}

// Fresh reports whether the snapshot can be served without a refetch.
func (s FeedSnapshot) Fresh(ttl time.Duration, now time.Time) bool {
	if s.Events == nil {
		return false
	}
	return now.Sub(s.SyncedAt) < ttl
}
