package honeypot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

const maxRequestBytes = 1 << 20

// Decider runs one decision.
type Decider interface {
	Decide(ctx context.Context, d Decision) (Outcome, error)
}

// Handler wires HTTP requests to the decision service.
type Handler struct {
	service Decider
	logger  *logging.Logger
}

// NewHandler creates a honeypot handler.
func NewHandler(service Decider, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Message handles POST /.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode honeypot request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return
	}

	outcome, err := h.service.Decide(r.Context(), Decision{
		RequestID: r.Header.Get("X-Request-ID"),
		SessionID: req.SessionID,
		Message:   *req.Message,
		History:   req.ConversationHistory,
	})
	if err != nil {
		if errors.Is(err, ErrAgentUnavailable) {
			h.writeJSON(w, http.StatusServiceUnavailable, errorBody{Detail: err.Error()})
			return
		}
		h.logger.Error("failed to process honeypot message", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "Failed to process message"})
		return
	}

	h.writeJSON(w, http.StatusOK, Response{Status: "success", Reply: outcome.Reply})
}

// Health handles GET and HEAD on / and /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
