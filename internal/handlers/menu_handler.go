package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/thisdjs/breakfast-menu-app/internal/catalog"
	"github.com/thisdjs/breakfast-menu-app/internal/models"
)

// MenuHandler handles menu catalog HTTP requests.
type MenuHandler struct {
	catalog *catalog.Store
	log     *slog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(cat *catalog.Store, log *slog.Logger) *MenuHandler {
	return &MenuHandler{
		catalog: cat,
		log:     log,
	}
}

// MenuResponse is the payload for GET /api/menu. Clients should not render
// category groupings while Loading is true.
type MenuResponse struct {
	Items      []models.MenuItem `json:"items"`
	Categories []string          `json:"categories"`
	Loading    bool              `json:"loading"`
}

// GetMenu handles GET /api/menu
// Returns the combined catalog with derived categories and the loading flag.
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	resp := MenuResponse{
		Items:      h.catalog.Items(),
		Categories: h.catalog.Categories(),
		Loading:    h.catalog.Loading(),
	}
	WriteJSON(w, http.StatusOK, resp, h.log)
}

// GetItem handles GET /api/menu/{itemId}
// - 200: successful operation
// - 400: Invalid ID supplied
// - 404: Item not found
func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "itemId")

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		h.log.Warn("invalid item ID format", "itemId", rawID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return
	}

	item, ok := h.catalog.ItemByID(id)
	if !ok {
		h.log.Info("menu item not found", "itemId", id)
		WriteError(w, http.StatusNotFound, "Item not found", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.log)
}

// CreateItem handles POST /api/menu
// Validates the submitted draft and appends a new user-created item. Field
// validation failures come back as 422 with a per-field error map.
func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var draft models.ItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.log.Error("failed to decode item draft", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	item, err := h.catalog.CreateItem(draft)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			h.log.Info("item draft rejected", "fields", len(verr.Fields))
			WriteValidationError(w, verr.Fields, h.log)
			return
		}

		h.log.Error("failed to create menu item", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, item, h.log)
}
