package metrics

import (
	"encoding/json"
	"expvar"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// Local diagnostics endpoints (bind them on 127.0.0.1 in your main)
	StatsPath     = "/stats"
	DebugVarsPath = "/debug/vars"
	EnvPath       = "/admin/env"
)

var (
	reloadCallback func() error
	st             = newState()
)

// Init publishes the expvar variables. Call once at process startup; the
// values snapshot on access, so no ticker is needed.
func Init() {
	expvar.Publish("ctr_started_at", expvar.Func(func() any {
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.startedAt.Format(time.RFC3339)
	}))
	expvar.Publish("ctr_uptime_seconds", expvar.Func(func() any {
		st.mu.Lock()
		defer st.mu.Unlock()
		return int64(time.Since(st.startedAt).Seconds())
	}))
	expvar.Publish("ctr_total_requests", expvar.Func(func() any {
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.totalReq
	}))
	expvar.Publish("ctr_total_errors", expvar.Func(func() any {
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.totalErr
	}))
	expvar.Publish("ctr_total_latency_ms", expvar.Func(func() any {
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.totalLatency.Milliseconds()
	}))
	expvar.Publish("ctr_requests_by_method_status", expvar.Func(func() any {
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.methodStatusSnapshotLocked()
	}))
	expvar.Publish("ctr_requests_last_10m", expvar.Func(func() any {
		st.mu.Lock()
		defer st.mu.Unlock()
		out := make([]int64, len(st.perMinute))
		copy(out, st.perMinute[:])
		return out
	}))
}

// SetReloadCallback sets the function to call when a configuration reload is
// requested through the env endpoint.
func SetReloadCallback(callback func() error) {
	reloadCallback = callback
}

// Instrument wraps an http.Handler to record request counts, status codes,
// latency, and requests-per-minute.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: 0}
		start := time.Now()
		next.ServeHTTP(sw, r)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		st.record(r.Method, sw.status, time.Since(start))
	})
}

// StatsHandler returns a compact JSON snapshot, suitable for quick human inspection.
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	st.mu.Lock()
	defer st.mu.Unlock()

	avgLatencyMs := float64(0)
	if st.totalReq > 0 {
		avgLatencyMs = float64(st.totalLatency.Milliseconds()) / float64(st.totalReq)
	}

	rpm := make([]int64, len(st.perMinute))
	copy(rpm, st.perMinute[:])

	s := stats{
		StartedAt:                 st.startedAt.Format(time.RFC3339),
		UptimeSeconds:             int64(now.Sub(st.startedAt).Seconds()),
		TotalRequests:             st.totalReq,
		TotalErrors:               st.totalErr,
		AverageLatencyMs:          avgLatencyMs,
		RequestsPerMinuteLast10m:  rpm,
		RequestsByMethodAndStatus: st.methodStatusSnapshotLocked(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s)
}

// ===== Internals =====

type stats struct {
	StartedAt                 string                      `json:"started_at"`
	UptimeSeconds             int64                       `json:"uptime_seconds"`
	TotalRequests             int64                       `json:"total_requests"`
	TotalErrors               int64                       `json:"total_errors"`
	AverageLatencyMs          float64                     `json:"avg_latency_ms"`
	RequestsPerMinuteLast10m  []int64                     `json:"requests_last_10m_newest_first"`
	RequestsByMethodAndStatus map[string]map[string]int64 `json:"requests_by_method_status"`
}

type metricsState struct {
	mu sync.Mutex

	startedAt time.Time

	totalReq     int64
	totalErr     int64
	totalLatency time.Duration

	// method -> statusCode -> count
	byMethodStatus map[string]map[int]int64

	// Newest minute is perMinute[0], oldest is perMinute[9]
	perMinute  [10]int64
	lastMinute time.Time
}

func newState() *metricsState {
	return &metricsState{
		startedAt:      time.Now(),
		byMethodStatus: make(map[string]map[int]int64),
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *metricsState) methodStatusSnapshotLocked() map[string]map[string]int64 {
	out := make(map[string]map[string]int64, len(s.byMethodStatus))
	for m, inner := range s.byMethodStatus {
		o2 := make(map[string]int64, len(inner))
		for code, c := range inner {
			o2[strconv.Itoa(code)] = c
		}
		out[m] = o2
	}
	return out
}

func (s *metricsState) record(method string, statusCode int, d time.Duration) {
	now := time.Now()
	if method == "" {
		method = "UNKNOWN"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalReq++
	if statusCode >= 400 {
		s.totalErr++
	}
	s.totalLatency += d

	if _, ok := s.byMethodStatus[method]; !ok {
		s.byMethodStatus[method] = make(map[int]int64)
	}
	s.byMethodStatus[method][statusCode]++

	// Requests-per-minute ring (newest-first)
	currMinute := now.Truncate(time.Minute)
	if s.lastMinute.IsZero() {
		s.lastMinute = currMinute
	}
	if delta := int(currMinute.Sub(s.lastMinute) / time.Minute); delta > 0 {
		if delta >= len(s.perMinute) {
			for i := range s.perMinute {
				s.perMinute[i] = 0
			}
		} else {
			for i := len(s.perMinute) - 1; i >= 0; i-- {
				j := i + delta
				if j < len(s.perMinute) {
					s.perMinute[j] = s.perMinute[i]
				}
				if i < delta {
					s.perMinute[i] = 0
				}
			}
		}
		s.lastMinute = currMinute
	}
	s.perMinute[0]++
}

// EnvHandler provides GET/POST access to environment variable management
func EnvHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		handleGetEnv(w, r)
	case http.MethodPost, http.MethodPut:
		handleSetEnv(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetEnv returns current CTR_* environment variables
func handleGetEnv(w http.ResponseWriter, r *http.Request) {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) == 2 && strings.HasPrefix(pair[0], "CTR_") {
			envVars[pair[0]] = pair[1]
		}
	}

	response := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"env_vars":  envVars,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// handleSetEnv updates environment variables from a JSON request
func handleSetEnv(w http.ResponseWriter, r *http.Request) {
	var request map[string]string
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON request body", http.StatusBadRequest)
		return
	}

	updated := make(map[string]string)
	errors := make(map[string]string)

	for key, value := range request {
		// Only CTR_* prefixed environment variables may be changed here
		if !strings.HasPrefix(key, "CTR_") {
			errors[key] = "Only CTR_* prefixed environment variables are allowed"
			continue
		}
		if !isValidEnvVarName(key) {
			errors[key] = "Invalid environment variable name format"
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			errors[key] = "Failed to set environment variable: " + err.Error()
			continue
		}
		updated[key] = value
	}

	message := "Environment variables updated. Note: some changes may require a restart to take effect."
	if len(updated) > 0 && reloadCallback != nil {
		if err := reloadCallback(); err != nil {
			errors["reload"] = "Component reload failed: " + err.Error()
			message = "Environment variables updated, but component reload failed."
		} else {
			message = "Environment variables updated and components reloaded."
		}
	}

	response := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"updated":   updated,
		"errors":    errors,
		"message":   message,
	}

	w.Header().Set("Content-Type", "application/json")
	statusCode := http.StatusOK
	if len(errors) > 0 && len(updated) == 0 {
		statusCode = http.StatusBadRequest
	}
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func isValidEnvVarName(name string) bool {
	if len(name) == 0 {
		return false
	}
	for _, char := range name {
		if !((char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_') {
			return false
		}
	}
	return true
}
