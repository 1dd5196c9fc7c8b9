package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/lmarchand/givre/internal/services"
	"github.com/lmarchand/givre/pkg/chat"
)

// ChatHandler relays conversation turns to the LLM and returns normalized
// structured replies. Every provider's raw text goes through the same
// parser, so clients always receive the reply contract.
type ChatHandler struct {
	llmService services.LLMService
	logger     *slog.Logger
}

func NewChatHandler(llmService services.LLMService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		llmService: llmService,
		logger:     logger,
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for chat endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request chat.RelayRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body. Expected JSON with 'message', 'history', and 'systemPrompt' fields.")
		return
	}

	if err := request.Validate(); err != nil {
		h.logger.Warn("Invalid chat request", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Debug("Chat request received",
		"provider", h.llmService.Name(),
		"history_len", len(request.History))

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	raw, err := h.llmService.Chat(ctx, request.SystemPrompt, request.History, request.Message)
	if err != nil {
		h.logger.Error("Error generating chat response",
			"provider", h.llmService.Name(),
			"error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to generate response. Please try again.")
		return
	}

	reply := chat.ParseReply(raw)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		h.logger.Error("Error encoding chat response", "error", err)
	}
}

func (h *ChatHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(chat.ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Error encoding error response", "error", err)
	}
}
