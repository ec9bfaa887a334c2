package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aethermind-ai-hash/asb/internal/auth"
	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/service"
)

// AnalyticsHandler serves the dashboard snapshot and accepts raw widget events.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	ledger    *service.LedgerService
	logger    *slog.Logger
}

// NewAnalyticsHandler creates an analytics handler
func NewAnalyticsHandler(analytics *service.AnalyticsService, ledger *service.LedgerService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, ledger: ledger, logger: logger}
}

type logEventRequest struct {
	TenantID  int64             `json:"tenant_id"`
	UserID    string            `json:"user_id"`
	Type      string            `json:"type"`
	Payload   map[string]string `json:"payload"`
	Source    string            `json:"source"`
	Timestamp string            `json:"timestamp"`
}

// HandleLog records one raw interaction event from the widget.
//
// The tenant id in the body must match the authenticated tenant. Events
// whose source is not "customer" are acknowledged but kept out of the
// usage ledger; the response says so.
//
// POST /analytics/log
func (h *AnalyticsHandler) HandleLog(w http.ResponseWriter, r *http.Request) {
	const op = "AnalyticsHandler.HandleLog"

	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req logEventRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid request body"))
		return
	}

	if req.TenantID == 0 {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "tenant_id is required"))
		return
	}
	if req.TenantID != tenant.ID {
		ErrorResponse(w, r, h.logger, domain.Forbidden(op, "tenant_id does not match session"))
		return
	}
	if req.Type == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "type is required"))
		return
	}
	if req.Timestamp == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "timestamp is required"))
		return
	}
	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "timestamp must be RFC 3339"))
		return
	}

	recorded, err := h.ledger.Append(r.Context(), domain.AppendParams{
		TenantID:  req.TenantID,
		UserID:    req.UserID,
		Type:      req.Type,
		Payload:   domain.Payload(req.Payload),
		Source:    domain.EventSource(req.Source),
		Timestamp: ts.UTC(),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	status := "logged"
	if !recorded {
		status = "ignored"
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": status})
}

type snapshotResponse struct {
	TotalInteractions int64             `json:"total_interactions"`
	ActiveUsers       int64             `json:"active_users"`
	FAQCreated        int64             `json:"faq_created"`
	FAQLimit          int               `json:"faq_limit"`
	AIUsed            int64             `json:"ai_used"`
	AILimit           int               `json:"ai_limit"`
	AIRemaining       int64             `json:"ai_remaining"`
	AIUnlimited       bool              `json:"ai_unlimited"`
	Daily             []dailyCountEntry `json:"daily"`
	Events            []usageEventEntry `json:"events"`
}

type dailyCountEntry struct {
	Day    string           `json:"day"`
	ByType map[string]int64 `json:"by_type"`
}

type usageEventEntry struct {
	ID        int64             `json:"id"`
	UserID    string            `json:"user_id"`
	Type      string            `json:"type"`
	Payload   map[string]string `json:"payload"`
	Timestamp time.Time         `json:"timestamp"`
}

// HandleData returns the tenant's analytics snapshot.
//
// GET /analytics/data
func (h *AnalyticsHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	snap, err := h.analytics.Snapshot(r.Context(), tenant)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	resp := snapshotResponse{
		TotalInteractions: snap.TotalInteractions,
		ActiveUsers:       snap.ActiveUsers,
		FAQCreated:        snap.FAQCreated,
		FAQLimit:          snap.FAQLimit,
		AIUsed:            snap.AIUsed,
		AILimit:           snap.AILimit,
		AIRemaining:       snap.AIRemaining,
		AIUnlimited:       snap.AIUnlimited,
		Daily:             make([]dailyCountEntry, len(snap.Daily)),
		Events:            make([]usageEventEntry, len(snap.Events)),
	}
	for i, d := range snap.Daily {
		resp.Daily[i] = dailyCountEntry{Day: d.Day, ByType: d.ByType}
	}
	for i, ev := range snap.Events {
		resp.Events[i] = usageEventEntry{
			ID:        ev.ID,
			UserID:    ev.UserID,
			Type:      ev.Type,
			Payload:   ev.Payload,
			Timestamp: ev.Timestamp,
		}
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
