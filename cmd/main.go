package main

import (
	"context"
	"expvar"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/chess-tournament-radar/backend/pkg/cache"
	"github.com/chess-tournament-radar/backend/pkg/config"
	"github.com/chess-tournament-radar/backend/pkg/feed"
	"github.com/chess-tournament-radar/backend/pkg/geocode"
	"github.com/chess-tournament-radar/backend/pkg/logger"
	"github.com/chess-tournament-radar/backend/pkg/metrics"
	"github.com/chess-tournament-radar/backend/pkg/scheduler"
	"github.com/chess-tournament-radar/backend/pkg/tournament"
	"github.com/chess-tournament-radar/backend/pkg/util"
)

func main() {
	logger.Info("Starting Chess Tournament Radar backend...")
	cfg := config.FromEnv()

	store, err := cache.NewBoltStore(cfg.CachePath)
	if err != nil {
		logger.Error("Failed to open cache store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	loader := feed.NewLoader(cfg.FeedURL, cfg.CacheTTL, store)
	geocoder := geocode.NewClient(cfg.GeocoderURL)
	svc := tournament.NewService(store, cache.NewSessionStore(), loader, geocoder)
	svc.Init(context.Background())

	sched, err := scheduler.New(scheduler.Config{
		Enabled:  cfg.SchedulerEnabled,
		CronSpec: cfg.SchedulerCron,
	}, func() {
		svc.Refresh(context.Background())
	})
	if err != nil {
		logger.Error("Failed to create scheduler: %v", err)
		os.Exit(1)
	}
	if cfg.SchedulerEnabled {
		sched.Start()
		defer sched.Stop()
	} else {
		logger.Info("Scheduler disabled (set CTR_SCHEDULER_ENABLED=true to enable)")
	}

	metrics.Init()
	metrics.SetReloadCallback(sched.Reload)

	r := mux.NewRouter()
	svc.Routes(r.PathPrefix("/api").Subrouter())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		util.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc(metrics.StatsPath, metrics.StatsHandler)
	r.Handle(metrics.DebugVarsPath, expvar.Handler())
	r.HandleFunc(metrics.EnvPath, metrics.EnvHandler)

	handler := util.Cors(metrics.Instrument(r))

	logger.Info("Starting HTTP server on %s...", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
