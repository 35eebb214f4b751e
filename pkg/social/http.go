package social

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
	auth    *YouTubeAuth
}

func NewHandler(service *Service, auth *YouTubeAuth) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/social-media/posts", h.handleCreatePost).Methods(http.MethodPost)
	r.HandleFunc("/social-media/posts", h.handleListPosts).Methods(http.MethodGet)
	r.HandleFunc("/social-media/posts/{id}", h.handleGetPost).Methods(http.MethodGet)
	r.HandleFunc("/social-media/posts/{id}", h.handleUpdatePost).Methods(http.MethodPut)
	r.HandleFunc("/social-media/posts/{id}", h.handleDeletePost).Methods(http.MethodDelete)

	r.HandleFunc("/social-media/youtube/auth-url", h.handleYouTubeAuthURL).Methods(http.MethodGet)
	r.HandleFunc("/social-media/youtube/oauth2callback", h.handleYouTubeCallback).Methods(http.MethodGet)
	r.HandleFunc("/social-media/youtube/status", h.handleYouTubeStatus).Methods(http.MethodGet)
}

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Platform == "" {
		http.Error(w, "platform is required", http.StatusBadRequest)
		return
	}
	created, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Error("failed to create post")
		http.Error(w, "failed to create post", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"post": created})
}

func (h *Handler) handleListPosts(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	offset := parseQueryInt(r, "skip", 0)
	limit := parseQueryInt(r, "limit", 100)
	posts, err := h.service.ListPosts(r.Context(), platform, offset, limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list posts")
		http.Error(w, "failed to list posts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": posts})
}

func (h *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	found, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get post")
		http.Error(w, "failed to get post", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"post": found})
}

func (h *Handler) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	updated, err := h.service.UpdatePost(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update post")
		http.Error(w, "failed to update post", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"post": updated})
}

func (h *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete post")
		http.Error(w, "failed to delete post", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleYouTubeAuthURL(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		state = uuid.New().String()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"auth_url": h.auth.AuthURL(state),
		"state":    state,
	})
}

func (h *Handler) handleYouTubeCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}
	if err := h.auth.Exchange(r.Context(), code); err != nil {
		logger.Log.WithError(err).Error("youtube token exchange failed")
		http.Error(w, "token exchange failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "authorized",
		"message": "YouTube uploads are now enabled",
	})
}

func (h *Handler) handleYouTubeStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authorized": h.auth.Authorized(),
	})
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
