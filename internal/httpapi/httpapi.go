// Package httpapi is the host that exposes the track storage engine over
// HTTP: the ingest endpoint, the two read endpoints, and a Prometheus
// metrics endpoint. It owns the single readers-writer lock the engine's
// concurrency model requires: writers (ingest) take the lock exclusively,
// readers take it shared.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arkforge/tracked/internal/record"
	"github.com/arkforge/tracked/internal/store"
	trackedErrors "github.com/arkforge/tracked/pkg/errors"
)

// Server wires the track Store into a gorilla/mux router, serializing
// ingest against reads with a single RWMutex per spec.md §5: all appends
// serialize as writers, all reads run concurrently as readers.
type Server struct {
	store  *store.Store
	log    *zap.SugaredLogger
	mu     sync.RWMutex
	router *mux.Router

	trackGauge prometheus.Gauge
	pointGauge prometheus.Gauge
}

// New builds a Server around an already-initialized Store.
func New(s *store.Store, log *zap.SugaredLogger) *Server {
	srv := &Server{
		store: s,
		log:   log,
		trackGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracked_track_count",
			Help: "Number of distinct tracks currently stored.",
		}),
		pointGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracked_point_count",
			Help: "Total number of point records currently stored across all tracks.",
		}),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(srv.trackGauge, srv.pointGauge)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/tracks/", srv.handleUpdateTracks).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/tracks/{id}/json", srv.handleShowTrack).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/tracks/{id}/compact", srv.handleShowTrackCompact).Methods(http.MethodGet)
	router.Handle("/api/v1/stats/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	srv.router = router
	srv.trackGauge.Set(float64(s.TrackCount()))
	srv.pointGauge.Set(float64(s.PointCount()))

	return srv
}

// Router returns the http.Handler the process should serve.
func (s *Server) Router() http.Handler { return s.router }

type pointDef struct {
	TrackID string       `json:"track_id"`
	Point   record.Point `json:"point"`
}

type updateTracksRequest struct {
	Data []pointDef `json:"data"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateTracks(w http.ResponseWriter, r *http.Request) {
	var req updateTracksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[string]struct{}, len(req.Data))
	for _, def := range req.Data {
		ids[def.TrackID] = struct{}{}

		if err := s.store.Append(def.TrackID, def.Point, true); err != nil {
			s.log.Warnw("append failed", "track_id", def.TrackID, "error", err)
			writeTrackedError(w, err)
			return
		}
	}

	s.trackGauge.Set(float64(s.store.TrackCount()))
	s.pointGauge.Set(float64(s.store.PointCount()))

	status := strconv.Itoa(len(req.Data)) + " points received, " + strconv.Itoa(len(ids)) + " tracks updated"
	writeJSON(w, http.StatusOK, statusResponse{Status: status})
}

type trackResponse struct {
	TrackID string         `json:"track_id"`
	Points  []record.Point `json:"points"`
	Count   int            `json:"count"`
}

func (s *Server) handleShowTrack(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	interp, after := parseReadParams(r)

	s.mu.RLock()
	points, err := s.store.LoadTrack(id, interp, after)
	s.mu.RUnlock()

	if err != nil {
		writeTrackedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trackResponse{TrackID: id, Points: points, Count: len(points)})
}

type trackCompactResponse struct {
	TrackID string               `json:"track_id"`
	Points  []store.CompactPoint `json:"points"`
	Count   int                  `json:"count"`
}

func (s *Server) handleShowTrackCompact(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	interp, after := parseReadParams(r)

	s.mu.RLock()
	points, err := s.store.LoadTrackCompact(id, interp, after)
	s.mu.RUnlock()

	if err != nil {
		writeTrackedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trackCompactResponse{TrackID: id, Points: points, Count: len(points)})
}

func parseReadParams(r *http.Request) (interp bool, after *int64) {
	q := r.URL.Query()

	if v := q.Get("interpolate"); v != "" {
		interp, _ = strconv.ParseBool(v)
	}

	if v := q.Get("after"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			after = &parsed
		}
	}

	return interp, after
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeTrackedError maps a TrackError's code onto the HTTP status table
// spec.md §7 defines: NotFound -> 404, SequenceError -> 400-class,
// everything else the core can raise -> 500.
func writeTrackedError(w http.ResponseWriter, err error) {
	code := trackedErrors.GetErrorCode(err)

	status := http.StatusInternalServerError
	switch code {
	case trackedErrors.ErrorCodeNotFound:
		status = http.StatusNotFound
	case trackedErrors.ErrorCodeSequence:
		status = http.StatusBadRequest
	}

	writeError(w, status, err.Error())
}
