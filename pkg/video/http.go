package video

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/videos", h.handleCreateVideo).Methods(http.MethodPost)
	r.HandleFunc("/videos", h.handleListVideos).Methods(http.MethodGet)
	r.HandleFunc("/videos/{id}", h.handleGetVideo).Methods(http.MethodGet)
	r.HandleFunc("/videos/{id}", h.handleUpdateVideo).Methods(http.MethodPut)
	r.HandleFunc("/videos/{id}", h.handleDeleteVideo).Methods(http.MethodDelete)
}

func (h *Handler) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	created, err := h.service.CreateVideo(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Error("failed to create video")
		http.Error(w, "failed to create video", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"video": created})
}

func (h *Handler) handleListVideos(w http.ResponseWriter, r *http.Request) {
	offset := parseQueryInt(r, "skip", 0)
	limit := parseQueryInt(r, "limit", 100)
	videos, err := h.service.ListVideos(r.Context(), offset, limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list videos")
		http.Error(w, "failed to list videos", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": videos})
}

func (h *Handler) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid video id", http.StatusBadRequest)
		return
	}
	found, err := h.service.GetVideo(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "video not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get video")
		http.Error(w, "failed to get video", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"video": found})
}

func (h *Handler) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid video id", http.StatusBadRequest)
		return
	}
	var req models.UpdateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	updated, err := h.service.UpdateVideo(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "video not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update video")
		http.Error(w, "failed to update video", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"video": updated})
}

func (h *Handler) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid video id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteVideo(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "video not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete video")
		http.Error(w, "failed to delete video", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
