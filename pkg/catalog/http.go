package catalog

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
	r.HandleFunc("/products", h.handleCreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/products", h.handleListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/trending", h.handleListTrending).Methods(http.MethodGet)
	r.HandleFunc("/products/discover", h.handleDiscover).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", h.handleGetProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.handleUpdateProduct).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", h.handleDeleteProduct).Methods(http.MethodDelete)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.URL == "" {
		http.Error(w, "name and url are required", http.StatusBadRequest)
		return
	}
	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Error("failed to create product")
		http.Error(w, "failed to create product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"product": product})
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	offset := parseQueryInt(r, "skip", 0)
	limit := parseQueryInt(r, "limit", 100)
	products, err := h.service.ListProducts(r.Context(), offset, limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list products")
		http.Error(w, "failed to list products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": products})
}

func (h *Handler) handleListTrending(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 20)
	products, err := h.service.ListTrending(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list trending products")
		http.Error(w, "failed to list trending products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": products})
}

func (h *Handler) handleDiscover(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 20)
	products, err := h.service.DiscoverProducts(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("product discovery failed")
		http.Error(w, "product discovery failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": products, "discovered": len(products)})
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get product")
		http.Error(w, "failed to get product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	var req models.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update product")
		http.Error(w, "failed to update product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete product")
		http.Error(w, "failed to delete product", http.StatusInternalServerError)
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
