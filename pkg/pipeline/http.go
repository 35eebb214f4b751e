package pipeline

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	runner *Runner
}

func NewHandler(runner *Runner) *Handler {
	return &Handler{runner: runner}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/pipeline/run", h.handleRun).Methods(http.MethodPost)
	r.HandleFunc("/pipeline/test", h.handleTest).Methods(http.MethodGet)
}

// handleRun executes a full pipeline run synchronously and returns the run
// summary. An empty body runs with the configured defaults.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	var req models.RunPipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	h.respond(w, h.runner.Run(r.Context(), Options{
		Platforms: req.Platforms,
		Limit:     req.Limit,
	}))
}

// handleTest is a cheap smoke run with a small product limit.
func (h *Handler) handleTest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.runner.Run(r.Context(), Options{Limit: 2}))
}

func (h *Handler) respond(w http.ResponseWriter, run *models.PipelineRun) {
	status := http.StatusOK
	if run.Status == models.RunStatusFailed {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"run": run})
}
