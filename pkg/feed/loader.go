package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chess-tournament-radar/backend/pkg/cache"
	"github.com/chess-tournament-radar/backend/pkg/logger"
	"github.com/chess-tournament-radar/backend/pkg/models"
)

// DefaultTTL is the maximum age of a cached snapshot before a refetch.
const DefaultTTL = 24 * time.Hour

// Mode says where the events in a Result came from.
type Mode string

const (
	ModeLive  Mode = "live"  // fetched from the feed just now
	ModeCache Mode = "cache" // fresh cached snapshot, no network call
	ModeSeed  Mode = "seed"  // bundled fallback after a feed failure
)

// Result is the loader outcome. Loading never fails: a feed failure degrades
// to the seeded dataset, and Mode/Status tell the caller which one they got.
type Result struct {
	Events   []models.Event
	SyncedAt time.Time
	Mode     Mode
	Status   string
}

// Loader fetches the published feed, validates its shape, and keeps the
// durable cache current. On any failure it falls back to the seeded dataset.
type Loader struct {
	FeedURL    string
	TTL        time.Duration
	HTTPClient *http.Client
	Store      cache.Store
	Seed       []models.Event

	now func() time.Time
}

// NewLoader returns a loader with the bundled seed dataset and default TTL.
func NewLoader(feedURL string, ttl time.Duration, store cache.Store) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Loader{
		FeedURL:    feedURL,
		TTL:        ttl,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Store:      store,
		Seed:       SeededEvents(),
		now:        time.Now,
	}
}

// Load returns the current event list. With force false a fresh cached
// snapshot is served without any network call; otherwise the feed is fetched
// and the cache rewritten. Feed failures are absorbed here and never reach
// the caller as errors.
func (l *Loader) Load(ctx context.Context, force bool) Result {
	if !force {
		snapshot, found, err := l.Store.Feed()
		if err != nil {
			logger.Warn("Feed cache read failed: %v", err)
		}
		if found && snapshot.Fresh(l.TTL, l.now()) {
			logger.Info("Serving cached feed snapshot from %s", snapshot.SyncedAt.Format(time.RFC3339))
			return Result{
				Events:   snapshot.Events,
				SyncedAt: snapshot.SyncedAt,
				Mode:     ModeCache,
				Status:   fmt.Sprintf("Using cached feed, synced %s", snapshot.SyncedAt.Format(time.RFC3339)),
			}
		}
	}

	events, syncedAt, err := l.fetch(ctx)
	if err != nil {
		logger.Warn("Feed load failed, adopting seeded dataset: %v", err)
		// Stamp the fallback with a fresh syncedAt so a bad feed does not
		// cause a refetch storm inside the TTL window.
		syncedAt = l.now().UTC()
		if saveErr := l.Store.SaveFeed(models.FeedSnapshot{Events: l.Seed, SyncedAt: syncedAt}); saveErr != nil {
			logger.Error("Failed to persist seeded snapshot: %v", saveErr)
		}
		return Result{
			Events:   l.Seed,
			SyncedAt: syncedAt,
			Mode:     ModeSeed,
			Status:   "Feed unavailable, showing bundled data",
		}
	}

	if saveErr := l.Store.SaveFeed(models.FeedSnapshot{Events: events, SyncedAt: syncedAt}); saveErr != nil {
		logger.Error("Failed to persist feed snapshot: %v", saveErr)
	}
	logger.Info("Feed loaded: %d events, synced %s", len(events), syncedAt.Format(time.RFC3339))
	return Result{
		Events:   events,
		SyncedAt: syncedAt,
		Mode:     ModeLive,
		Status:   fmt.Sprintf("Feed updated, %d events", len(events)),
	}
}

// envelope is the published feed document.
type envelope struct {
	Events   json.RawMessage `json:"events"`
	SyncedAt string          `json:"syncedAt"`
}

func (l *Loader) fetch(ctx context.Context) ([]models.Event, time.Time, error) {
	reqURL, err := url.Parse(l.FeedURL)
	if err != nil {
		return nil, time.Time{}, &FetchError{URL: l.FeedURL, Err: err}
	}
	// Cache-defeating query parameter so a stale intermediate cache cannot
	// mask a new daily feed.
	q := reqURL.Query()
	q.Set("ts", strconv.FormatInt(l.now().UnixNano(), 10))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, time.Time{}, &FetchError{URL: l.FeedURL, Err: err}
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	res, err := l.HTTPClient.Do(req)
	if err != nil {
		return nil, time.Time{}, &FetchError{URL: l.FeedURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, time.Time{}, &FetchError{URL: l.FeedURL, Status: res.StatusCode}
	}

	var payload envelope
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, time.Time{}, &ValidationError{Reason: fmt.Sprintf("decode: %v", err)}
	}

	trimmed := bytes.TrimSpace(payload.Events)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, time.Time{}, &ValidationError{Reason: "events field is not a list"}
	}
	var events []models.Event
	if err := json.Unmarshal(trimmed, &events); err != nil {
		return nil, time.Time{}, &ValidationError{Reason: fmt.Sprintf("events list: %v", err)}
	}

	syncedAt := l.now().UTC()
	if payload.SyncedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, payload.SyncedAt); err == nil {
			syncedAt = parsed
		} else {
			logger.Warn("Feed syncedAt %q unparsable, using current time", payload.SyncedAt)
		}
	}

	return events, syncedAt, nil
}
