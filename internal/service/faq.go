package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/repository"
)

// FAQService manages a tenant's FAQ entries.
type FAQService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewFAQService creates an FAQ service
func NewFAQService(store repository.Store, logger *slog.Logger) *FAQService {
	return &FAQService{store: store, logger: logger}
}

// Upsert saves an FAQ. Saving a question the tenant already has overwrites
// its answer and popular flag; plan limits are reported by analytics, not
// enforced here.
func (s *FAQService) Upsert(ctx context.Context, params domain.FAQUpsertParams) (*domain.FAQ, error) {
	const op = "FAQService.Upsert"

	params.Question = strings.TrimSpace(params.Question)
	params.Answer = strings.TrimSpace(params.Answer)
	if params.Question == "" {
		return nil, domain.Invalid(op, "question is required")
	}
	if params.Answer == "" {
		return nil, domain.Invalid(op, "answer is required")
	}

	faq, err := s.store.UpsertFAQ(ctx, params)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, params.TenantID, "faq_saved", "")
	return faq, nil
}

// DeleteByID removes an FAQ by id. Deleting an id the tenant does not have
// succeeds without effect.
func (s *FAQService) DeleteByID(ctx context.Context, tenantID, id int64) error {
	if err := s.store.DeleteFAQByID(ctx, tenantID, id); err != nil {
		return err
	}
	s.audit(ctx, tenantID, "faq_deleted", "")
	return nil
}

// DeleteByQuestion removes an FAQ by exact question text. Idempotent.
func (s *FAQService) DeleteByQuestion(ctx context.Context, tenantID int64, question string) error {
	const op = "FAQService.DeleteByQuestion"

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Invalid(op, "question is required")
	}

	if err := s.store.DeleteFAQByQuestion(ctx, tenantID, question); err != nil {
		return err
	}
	s.audit(ctx, tenantID, "faq_deleted", "")
	return nil
}

// List returns the tenant's FAQs, popular entries first.
func (s *FAQService) List(ctx context.Context, tenantID int64) ([]domain.FAQ, error) {
	return s.store.ListFAQs(ctx, tenantID)
}

// Count returns how many FAQs the tenant has stored.
func (s *FAQService) Count(ctx context.Context, tenantID int64) (int64, error) {
	return s.store.CountFAQs(ctx, tenantID)
}

func (s *FAQService) audit(ctx context.Context, tenantID int64, action, performedBy string) {
	err := s.store.InsertAuditEntry(ctx, &domain.AuditEntry{
		TenantID:    &tenantID,
		Action:      action,
		PerformedBy: performedBy,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to write audit entry", "action", action, "error", err)
	}
}
