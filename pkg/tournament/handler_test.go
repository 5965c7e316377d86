package tournament

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chess-tournament-radar/backend/pkg/cache"
	"github.com/chess-tournament-radar/backend/pkg/feed"
	"github.com/chess-tournament-radar/backend/pkg/geocode"
	"github.com/chess-tournament-radar/backend/pkg/models"
)

const feedPayload = `{
	"syncedAt": "2026-08-23T06:00:00Z",
	"events": [
		{"id":"evt-42","name":"Dallas Fall Open","startDate":"2026-09-12","endDate":"2026-09-13","city":"Dallas","state":"TX","lat":32.7767,"lon":-96.7970,"sourceId":"uschess-upcoming","sourceUrl":"https://example.org"},
		{"id":"evt-7","name":"Motor City Open","startDate":"2026-09-05","endDate":"2026-09-06","city":"Detroit","state":"MI","lat":42.3314,"lon":-83.0458,"sourceId":"michess","sourceUrl":"https://example.org"}
	]
}`

type fixture struct {
	svc    *Service
	router *mux.Router
	store  *cache.BoltStore
}

func newFixture(t *testing.T, geocodeHandler http.HandlerFunc) *fixture {
	t.Helper()

	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedPayload))
	}))
	t.Cleanup(feedSrv.Close)

	geoURL := ""
	if geocodeHandler != nil {
		geoSrv := httptest.NewServer(geocodeHandler)
		t.Cleanup(geoSrv.Close)
		geoURL = geoSrv.URL
	}

	store, err := cache.NewBoltStore(filepath.Join(t.TempDir(), "radar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	loader := feed.NewLoader(feedSrv.URL, feed.DefaultTTL, store)
	svc := NewService(store, cache.NewSessionStore(), loader, geocode.NewClient(geoURL))
	svc.Init(context.Background())

	router := mux.NewRouter()
	svc.Routes(router.PathPrefix("/api").Subrouter())

	return &fixture{svc: svc, router: router, store: store}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestEventsEndpointStateFilter(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/api/events?state=TX", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp eventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "evt-42", resp.Events[0].Id)
	assert.Equal(t, []string{"MI", "TX"}, resp.States)
	assert.Nil(t, resp.Events[0].Distance)
	assert.Equal(t, "2026-08-23T06:00:00Z", resp.SyncedAt.Format("2006-01-02T15:04:05Z"))
}

func TestEventsEndpointDefaultsToAll(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/api/events", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp eventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	// sorted ascending by start date
	assert.Equal(t, "evt-7", resp.Events[0].Id)
	assert.Equal(t, "evt-42", resp.Events[1].Id)
}

func TestSelectAndDetailsContract(t *testing.T) {
	f := newFixture(t, nil)

	// no selection yet: not found
	w := f.do(http.MethodGet, "/api/details?id=evt-42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// select evt-42
	w = f.do(http.MethodPost, "/api/events/evt-42/select", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	// matching id renders the event with its source
	w = f.do(http.MethodGet, "/api/details?id=evt-42", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp detailsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "evt-42", resp.Event.Id)
	assert.Equal(t, "Dallas Fall Open", resp.Event.Name)
	assert.Equal(t, "US Chess Upcoming Tournaments", resp.Source.Name)

	// mismatching id renders not-found
	w = f.do(http.MethodGet, "/api/details?id=evt-99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// missing id renders not-found
	w = f.do(http.MethodGet, "/api/details", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectUnknownEvent(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/events/no-such-event/select", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetailsUnknownSourceFallsBack(t *testing.T) {
	f := newFixture(t, nil)

	// evt-7 carries a known source; rewrite the slot with an unknown one to
	// check the catalog fallback.
	f.svc.session.PutSelected([]byte(`{"id":"evt-x","name":"Mystery Open","sourceId":"gone-source"}`))

	w := f.do(http.MethodGet, "/api/details?id=evt-x", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp detailsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Unknown source", resp.Source.Name)
}

func TestDetailsUnparsableSelection(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.session.PutSelected([]byte(`{broken`))

	w := f.do(http.MethodGet, "/api/details?id=evt-42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetAnchorPersistsAndAnnotatesDistances(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "us", r.URL.Query().Get("countrycodes"))
		w.Write([]byte(`[{"display_name":"Dallas, Texas, United States","lat":"32.7767","lon":"-96.7970"}]`))
	})

	w := f.do(http.MethodPost, "/api/anchor", `{"query":"Dallas"}`)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.store.Anchor()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Contains(t, stored.Label, "Dallas")

	// Dallas event is in range with distance ~0; Detroit is ~1000 miles out.
	w = f.do(http.MethodGet, "/api/events", "")
	var resp eventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "evt-42", resp.Events[0].Id)
	require.NotNil(t, resp.Events[0].Distance)
	assert.InDelta(t, 0, *resp.Events[0].Distance, 0.1)
}

func TestSetAnchorCityNotFound(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	w := f.do(http.MethodPost, "/api/anchor", `{"query":"Nowhereville"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetAnchorGeocodeFailure(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	w := f.do(http.MethodPost, "/api/anchor", `{"query":"Dallas"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSetAnchorMissingQuery(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/anchor", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearAnchor(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"display_name":"Dallas, Texas, United States","lat":"32.7767","lon":"-96.7970"}]`))
	})

	w := f.do(http.MethodPost, "/api/anchor", `{"query":"Dallas"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodDelete, "/api/anchor", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	stored, err := f.store.Anchor()
	require.NoError(t, err)
	assert.Nil(t, stored)

	// all state-filtered events are visible again, without distances
	w = f.do(http.MethodGet, "/api/events", "")
	var resp eventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Nil(t, resp.Events[0].Distance)
}

func TestRefreshEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(feed.ModeLive), resp["mode"])
	assert.Equal(t, float64(2), resp["count"])
}

func TestSourcesEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/api/sources", "")
	require.Equal(t, http.StatusOK, w.Code)

	var sources []models.Source
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sources))
	assert.NotEmpty(t, sources)
}

func TestRefreshGuardRejectsReentrantCalls(t *testing.T) {
	f := newFixture(t, nil)

	// Simulate an in-flight refresh; a second one must be rejected.
	require.True(t, f.svc.refreshing.CompareAndSwap(false, true))
	defer f.svc.refreshing.Store(false)

	w := f.do(http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.False(t, f.svc.Refresh(context.Background()))
}
