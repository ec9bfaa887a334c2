package handler

import (
	"log/slog"
	"net/http"

	"github.com/aethermind-ai-hash/asb/internal/auth"
	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/service"
)

// WelcomeHandler reads and updates the tenant's chat welcome message.
type WelcomeHandler struct {
	tenants *service.TenantService
	logger  *slog.Logger
}

// NewWelcomeHandler creates a welcome message handler
func NewWelcomeHandler(tenants *service.TenantService, logger *slog.Logger) *WelcomeHandler {
	return &WelcomeHandler{tenants: tenants, logger: logger}
}

// HandleGet returns the welcome message, falling back to the default.
//
// GET /welcome_message
func (h *WelcomeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	msg, err := h.tenants.WelcomeMessage(r.Context(), tenant.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"welcome_message": msg})
}

type welcomeUpdateRequest struct {
	Message string `json:"message"`
}

// HandleSet stores a custom welcome message.
//
// POST /update_welcome_message
func (h *WelcomeHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	const op = "WelcomeHandler.HandleSet"

	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req welcomeUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid request body"))
		return
	}

	if err := h.tenants.SetWelcomeMessage(r.Context(), tenant.ID, req.Message, tenant.Email); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "success"})
}
