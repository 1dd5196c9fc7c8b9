package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lmarchand/givre/internal/storage"
	"github.com/lmarchand/givre/pkg/state"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SavesHandler exposes save snapshots over HTTP.
// Routes:
// PUT /v1/saves/{id}    - Store a snapshot
// GET /v1/saves/{id}    - Read a snapshot
// DELETE /v1/saves/{id} - Delete a snapshot
type SavesHandler struct {
	store  storage.Storage
	logger *slog.Logger
}

func NewSavesHandler(store storage.Storage, logger *slog.Logger) *SavesHandler {
	return &SavesHandler{
		store:  store,
		logger: logger,
	}
}

func (h *SavesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/saves"), "/")
	if idStr == "" {
		h.logger.Warn("Save request without ID", "method", r.Method)
		h.writeError(w, http.StatusBadRequest, "Save ID is required")
		return
	}
	saveID, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid save ID", "id", idStr, "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid save ID format")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.handlePut(w, r, saveID)
	case http.MethodGet:
		h.handleGet(w, r, saveID)
	case http.MethodDelete:
		h.handleDelete(w, r, saveID)
	default:
		h.logger.Warn("Method not allowed for saves endpoint", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: PUT, GET, DELETE")
	}
}

func (h *SavesHandler) handlePut(w http.ResponseWriter, r *http.Request, saveID uuid.UUID) {
	var snap state.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		h.logger.Warn("Invalid JSON in save request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if snap.GameState == nil {
		h.writeError(w, http.StatusBadRequest, "gameState field is required")
		return
	}
	if snap.Version == "" {
		snap.Version = state.SaveVersion
	}

	if err := h.store.SaveSnapshot(r.Context(), saveID.String(), &snap); err != nil {
		h.logger.Error("Failed to store snapshot", "error", err, "id", saveID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to store snapshot")
		return
	}

	h.logger.Debug("Snapshot stored", "id", saveID.String(), "scene", snap.GameState.CurrentSceneID)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		h.logger.Error("Failed to encode snapshot response", "error", err)
	}
}

func (h *SavesHandler) handleGet(w http.ResponseWriter, r *http.Request, saveID uuid.UUID) {
	snap, err := h.store.LoadSnapshot(r.Context(), saveID.String())
	if err != nil {
		h.logger.Error("Failed to load snapshot", "error", err, "id", saveID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}
	if snap == nil {
		h.logger.Warn("Snapshot not found", "id", saveID.String())
		h.writeError(w, http.StatusNotFound, "Snapshot not found")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		h.logger.Error("Failed to encode snapshot response", "error", err)
	}
}

func (h *SavesHandler) handleDelete(w http.ResponseWriter, r *http.Request, saveID uuid.UUID) {
	if err := h.store.DeleteSnapshot(r.Context(), saveID.String()); err != nil {
		h.logger.Error("Failed to delete snapshot", "error", err, "id", saveID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to delete snapshot")
		return
	}
	h.logger.Debug("Snapshot deleted", "id", saveID.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *SavesHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
