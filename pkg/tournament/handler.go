package tournament

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/chess-tournament-radar/backend/pkg/cache"
	"github.com/chess-tournament-radar/backend/pkg/feed"
	"github.com/chess-tournament-radar/backend/pkg/geocode"
	"github.com/chess-tournament-radar/backend/pkg/logger"
	"github.com/chess-tournament-radar/backend/pkg/models"
	"github.com/chess-tournament-radar/backend/pkg/source"
	"github.com/chess-tournament-radar/backend/pkg/util"
)

// Service holds the view state (event list, city anchor, sync status) and
// serves the HTTP surface. State lives here, not in package globals, so the
// filter pipeline stays a pure function.
type Service struct {
	store    cache.Store
	session  *cache.SessionStore
	loader   *feed.Loader
	geocoder *geocode.Client

	mu       sync.RWMutex
	events   []models.Event
	syncedAt time.Time
	status   string
	anchor   *models.CityAnchor

	refreshing atomic.Bool
}

func NewService(store cache.Store, session *cache.SessionStore, loader *feed.Loader, geocoder *geocode.Client) *Service {
	return &Service{
		store:    store,
		session:  session,
		loader:   loader,
		geocoder: geocoder,
	}
}

// Init populates the event list from cache or feed and restores the
// persisted city anchor.
func (s *Service) Init(ctx context.Context) {
	result := s.loader.Load(ctx, false)
	s.adopt(result)

	anchor, err := s.store.Anchor()
	if err != nil {
		logger.Warn("Failed to restore city anchor: %v", err)
	}
	if anchor != nil {
		logger.Info("Restored city anchor: %s", anchor.Label)
		s.mu.Lock()
		s.anchor = anchor
		s.mu.Unlock()
	}
}

// Refresh forces a feed reload, honoring the single-flight guard. Used by
// the scheduler; returns false when a refresh was already in flight.
func (s *Service) Refresh(ctx context.Context) bool {
	if !s.refreshing.CompareAndSwap(false, true) {
		logger.Warn("Refresh already in flight, skipping")
		return false
	}
	defer s.refreshing.Store(false)

	result := s.loader.Load(ctx, true)
	s.adopt(result)
	return true
}

func (s *Service) adopt(result feed.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = result.Events
	s.syncedAt = result.SyncedAt
	s.status = result.Status
}

// Routes registers the API on the given router.
func (s *Service) Routes(r *mux.Router) {
	r.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}/select", s.handleSelect).Methods(http.MethodPost)
	r.HandleFunc("/details", s.handleDetails).Methods(http.MethodGet)
	r.HandleFunc("/anchor", s.handleSetAnchor).Methods(http.MethodPost)
	r.HandleFunc("/anchor", s.handleClearAnchor).Methods(http.MethodDelete)
	r.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/sources", s.handleSources).Methods(http.MethodGet)
}

type eventsResponse struct {
	Events   []models.VisibleEvent `json:"events"`
	Count    int                   `json:"count"`
	States   []string              `json:"states"`
	SyncedAt time.Time             `json:"syncedAt"`
	Status   string                `json:"status"`
	Anchor   *models.CityAnchor    `json:"anchor"`
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	selectedState := r.URL.Query().Get("state")
	if selectedState == "" {
		selectedState = StateAll
	}

	s.mu.RLock()
	events := s.events
	anchor := s.anchor
	syncedAt := s.syncedAt
	status := s.status
	s.mu.RUnlock()

	visible := VisibleEvents(events, selectedState, anchor)
	util.WriteJSON(w, http.StatusOK, eventsResponse{
		Events:   visible,
		Count:    len(visible),
		States:   States(events),
		SyncedAt: syncedAt,
		Status:   status,
		Anchor:   anchor,
	})
}

type anchorRequest struct {
	Query string `json:"query"`
}

func (s *Service) handleSetAnchor(w http.ResponseWriter, r *http.Request) {
	var req anchorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		util.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing city query"})
		return
	}

	anchor, err := s.geocoder.Search(r.Context(), req.Query)
	if err != nil {
		logger.Error("Geocoding failed: %v", err)
		util.WriteJSON(w, http.StatusBadGateway, map[string]string{"message": "City lookup failed, try again later"})
		return
	}
	if anchor == nil {
		util.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "City not found"})
		return
	}

	if err := s.store.SaveAnchor(*anchor); err != nil {
		logger.Error("Failed to persist city anchor: %v", err)
	}
	s.mu.Lock()
	s.anchor = anchor
	s.mu.Unlock()

	util.WriteJSON(w, http.StatusOK, anchor)
}

func (s *Service) handleClearAnchor(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearAnchor(); err != nil {
		logger.Error("Failed to clear city anchor: %v", err)
	}
	s.mu.Lock()
	s.anchor = nil
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.refreshing.CompareAndSwap(false, true) {
		util.WriteJSON(w, http.StatusConflict, map[string]string{"message": "Refresh already in progress"})
		return
	}
	defer s.refreshing.Store(false)

	result := s.loader.Load(r.Context(), true)
	s.adopt(result)

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   result.Status,
		"mode":     result.Mode,
		"count":    len(result.Events),
		"syncedAt": result.SyncedAt,
	})
}

func (s *Service) handleSources(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, source.Catalog())
}

func (s *Service) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	events := s.events
	s.mu.RUnlock()

	for _, event := range events {
		if event.Id == id {
			data, err := json.Marshal(event)
			if err != nil {
				logger.Error("Failed to serialize event %s: %v", id, err)
				util.WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "Selection failed"})
				return
			}
			s.session.PutSelected(data)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	util.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Tournament not found"})
}

type detailsResponse struct {
	Event  models.Event  `json:"event"`
	Source models.Source `json:"source"`
}

// handleDetails renders the stored selection only when its identifier
// matches the id query parameter. Mismatch, parse failure, or an empty slot
// all yield the not-found view.
func (s *Service) handleDetails(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")

	data, ok := s.session.Selected()
	if !ok {
		util.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Tournament not found"})
		return
	}

	var event models.Event
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Warn("Stored selection unparsable: %v", err)
		util.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Tournament not found"})
		return
	}
	if id == "" || event.Id != id {
		util.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Tournament not found"})
		return
	}

	util.WriteJSON(w, http.StatusOK, detailsResponse{
		Event:  event,
		Source: source.ByID(event.SourceId),
	})
}
