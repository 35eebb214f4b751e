package monitoring

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type Handler struct {
	collector *Collector
	checker   *Checker
	startedAt time.Time
}

func NewHandler(collector *Collector, checker *Checker) *Handler {
	return &Handler{
		collector: collector,
		checker:   checker,
		startedAt: time.Now().UTC(),
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/monitoring/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/monitoring/metrics", h.handleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/monitoring/dashboard", h.handleDashboard).Methods(http.MethodGet)
}

// RegisterRoot mounts the scrape endpoint outside the versioned API prefix.
func (h *Handler) RegisterRoot(r *mux.Router) {
	r.HandleFunc("/metrics", h.handlePrometheus).Methods(http.MethodGet)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Check(r.Context())
	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collector.Snapshot())
}

func (h *Handler) handlePrometheus(w http.ResponseWriter, r *http.Request) {
	h.collector.WritePrometheus(w)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"metrics":        h.collector.Snapshot(),
		"health":         h.checker.Check(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
