package handler

import (
	"log/slog"
	"net/http"

	"github.com/aethermind-ai-hash/asb/internal/auth"
	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/service"
)

// FAQHandler manages the signed-in tenant's FAQ entries.
type FAQHandler struct {
	faqs   *service.FAQService
	logger *slog.Logger
}

// NewFAQHandler creates an FAQ handler
func NewFAQHandler(faqs *service.FAQService, logger *slog.Logger) *FAQHandler {
	return &FAQHandler{faqs: faqs, logger: logger}
}

type faqResponse struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Popular  bool   `json:"popular"`
}

func toFAQResponse(f domain.FAQ) faqResponse {
	return faqResponse{ID: f.ID, Question: f.Question, Answer: f.Answer, Popular: f.Popular}
}

// HandleData lists the tenant's FAQs keyed by question, with the popular
// subset broken out for the widget's quick-reply chips.
//
// GET /faq_data
func (h *FAQHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	faqs, err := h.faqs.List(r.Context(), tenant.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	all := make(map[string]faqResponse, len(faqs))
	popular := make(map[string]faqResponse)
	for _, f := range faqs {
		all[f.Question] = toFAQResponse(f)
		if f.Popular {
			popular[f.Question] = toFAQResponse(f)
		}
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"all": all, "popular": popular})
}

type faqUpdateRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Popular  bool   `json:"popular"`
}

// HandleUpdate creates or overwrites an FAQ.
//
// POST /update_faq
func (h *FAQHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "FAQHandler.HandleUpdate"

	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req faqUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid request body"))
		return
	}

	faq, err := h.faqs.Upsert(r.Context(), domain.FAQUpsertParams{
		TenantID: tenant.ID,
		Question: req.Question,
		Answer:   req.Answer,
		Popular:  req.Popular,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"status": "success",
		"faq":    toFAQResponse(*faq),
	})
}

type faqDeleteRequest struct {
	ID       int64  `json:"faq_id"`
	Question string `json:"question"`
}

// HandleDelete removes an FAQ by id or by question text. Deleting
// something that is already gone still succeeds.
//
// POST /delete_faq
func (h *FAQHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "FAQHandler.HandleDelete"

	tenant := auth.GetTenant(r.Context())
	if tenant == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req faqDeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid request body"))
		return
	}

	var err error
	switch {
	case req.ID > 0:
		err = h.faqs.DeleteByID(r.Context(), tenant.ID, req.ID)
	case req.Question != "":
		err = h.faqs.DeleteByQuestion(r.Context(), tenant.ID, req.Question)
	default:
		err = domain.Invalid(op, "faq_id or question is required")
	}
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "success"})
}
