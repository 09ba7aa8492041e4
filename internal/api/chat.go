package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/calder/folio/internal/assistant"
	"github.com/calder/folio/internal/content"
	"github.com/calder/folio/internal/models"
	"github.com/calder/folio/internal/portfolio"
)

// Asker answers one chat turn. *assistant.Bridge satisfies it.
type Asker interface {
	Ask(ctx context.Context, snap content.Context, history []models.ChatMessage, message string) (string, error)
}

var _ Asker = (*assistant.Bridge)(nil)

// ChatHandler bridges visitor chat to the assistant. Model failures never
// surface as HTTP errors: the visitor gets a fallback reply with the
// isError flag set, and the page stays usable.
type ChatHandler struct {
	svc   *portfolio.Service
	asker Asker
}

// NewChatHandler creates a ChatHandler. asker may be nil when no model is
// configured; every request then gets the fallback reply.
func NewChatHandler(svc *portfolio.Service, asker Asker) *ChatHandler {
	return &ChatHandler{svc: svc, asker: asker}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("message is required"))
		return
	}

	if h.asker == nil {
		writeJSON(w, http.StatusOK, ChatResponse{Reply: assistant.FallbackReply, IsError: true})
		return
	}

	snap := h.svc.ContextSnapshot(r.Context())
	reply, err := h.asker.Ask(r.Context(), snap, req.History, req.Message)
	if err != nil {
		slog.Warn("chat request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, ChatResponse{Reply: assistant.FallbackReply, IsError: true})
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}
