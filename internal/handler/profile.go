package handler

import (
	"log/slog"
	"net/http"

	"github.com/aethermind-ai-hash/asb/internal/auth"
	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/service"
)

// ProfileHandler updates the tenant's profile and widget integration code.
type ProfileHandler struct {
	tenants *service.TenantService
	logger  *slog.Logger
}

// NewProfileHandler creates a profile handler
func NewProfileHandler(tenants *service.TenantService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{tenants: tenants, logger: logger}
}

type profileUpdateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Role    string `json:"role"`
}

type profileResponse struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Company        string `json:"company"`
	Role           string `json:"role"`
	Plan           string `json:"plan"`
	ProfilePicture string `json:"profile_picture"`
}

func toProfileResponse(t *domain.Tenant) profileResponse {
	return profileResponse{
		ID:             t.ID,
		Email:          t.Email,
		Name:           t.Name,
		Company:        t.Company,
		Role:           t.Role,
		Plan:           string(t.Plan),
		ProfilePicture: t.ProfilePicture,
	}
}

// HandleGet returns the signed-in tenant's profile.
//
// GET /profile
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toProfileResponse(tenant))
}

// HandleUpdate updates the profile fields.
//
// POST /update_profile
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "ProfileHandler.HandleUpdate"

	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid request body"))
		return
	}

	updated, err := h.tenants.UpdateProfile(r.Context(), domain.ProfileUpdateParams{
		TenantID: tenant.ID,
		Name:     req.Name,
		Email:    req.Email,
		Company:  req.Company,
		Role:     req.Role,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toProfileResponse(updated))
}

type integrationUpdateRequest struct {
	IntegrationCode string `json:"integration_code"`
}

// HandleGetIntegration returns the widget embed snippet.
//
// GET /integration_code
func (h *ProfileHandler) HandleGetIntegration(w http.ResponseWriter, r *http.Request) {
	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	code, err := h.tenants.IntegrationCode(r.Context(), tenant.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"integration_code": code})
}

// HandleUpdateIntegration stores a custom widget embed snippet.
//
// POST /update_integration
func (h *ProfileHandler) HandleUpdateIntegration(w http.ResponseWriter, r *http.Request) {
	const op = "ProfileHandler.HandleUpdateIntegration"

	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req integrationUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid request body"))
		return
	}

	if err := h.tenants.SetIntegrationCode(r.Context(), tenant.ID, req.IntegrationCode, tenant.Email); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "success"})
}
