package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chess-tournament-radar/backend/pkg/logger"
	"github.com/chess-tournament-radar/backend/pkg/models"
)

// DefaultBaseURL is the public Nominatim place-search endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org/search"

const userAgent = "chess-tournament-radar/1.0"

// Error indicates the geocoding call itself failed (network error or
// non-success status). Zero results is not an Error, it is a nil anchor.
type Error struct {
	Query string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Query, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// place is the wire shape of a Nominatim search result. Coordinates arrive
// as strings.
type place struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Client resolves free-text city queries against a Nominatim-style endpoint,
// restricted to U.S. results with a single-result limit.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client against the given endpoint; empty baseURL means
// the public Nominatim instance.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

// Search resolves query to a city anchor. Returns (nil, nil) when the
// endpoint finds no match. Single attempt, no retries.
func (c *Client) Search(ctx context.Context, query string) (*models.CityAnchor, error) {
	reqURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, &Error{Query: query, Err: err}
	}
	q := reqURL.Query()
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	q.Set("countrycodes", "us")
	q.Set("q", query)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, &Error{Query: query, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &Error{Query: query, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &Error{Query: query, Err: fmt.Errorf("unexpected status %d", res.StatusCode)}
	}

	var places []place
	if err := json.NewDecoder(res.Body).Decode(&places); err != nil {
		return nil, &Error{Query: query, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(places) == 0 {
		logger.Info("Geocode: no match for %q", query)
		return nil, nil
	}

	first := places[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, &Error{Query: query, Err: fmt.Errorf("parse lat %q: %w", first.Lat, err)}
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, &Error{Query: query, Err: fmt.Errorf("parse lon %q: %w", first.Lon, err)}
	}

	logger.Info("Geocode: %q resolved to %s (%f, %f)", query, first.DisplayName, lat, lon)
	return &models.CityAnchor{
		Label: first.DisplayName,
		Lat:   lat,
		Lon:   lon,
	}, nil
}
