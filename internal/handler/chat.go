package handler

import (
	"log/slog"
	"net/http"

	"github.com/aethermind-ai-hash/asb/internal/auth"
	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/service"
)

// ChatHandler answers chatbot messages.
type ChatHandler struct {
	chat   *service.ChatService
	logger *slog.Logger
}

// NewChatHandler creates a chat handler
func NewChatHandler(chat *service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

type chatMessageRequest struct {
	Message string `json:"message"`
}

type chatMessageResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

// HandleMessage answers one chat message for the signed-in tenant.
//
// POST /chatbot_message
func (h *ChatHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	const op = "ChatHandler.HandleMessage"

	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req chatMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid request body"))
		return
	}

	reply, err := h.chat.Respond(r.Context(), tenant, tenant.Email, req.Message)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, chatMessageResponse{
		Reply:  reply.Text,
		Source: reply.Source,
	})
}
