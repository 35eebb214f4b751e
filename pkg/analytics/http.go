package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/analytics/dashboard", h.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/analytics/products/trends", h.handleProductTrends).Methods(http.MethodGet)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.Dashboard(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to build analytics dashboard")
		http.Error(w, "failed to build dashboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *Handler) handleProductTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.service.ProductTrends(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to compute product trends")
		http.Error(w, "failed to compute product trends", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"trends": trends})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
