package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/metrics"
	"github.com/aethermind-ai-hash/asb/internal/repository"
)

// LedgerService appends interaction events to the usage ledger.
//
// Only customer-sourced events reach the ledger. Anything else (admin
// console clicks, internal tooling) is diverted to the audit trail so it
// can never inflate a tenant's usage numbers.
type LedgerService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewLedgerService creates a ledger service
func NewLedgerService(store repository.Store, logger *slog.Logger) *LedgerService {
	return &LedgerService{store: store, logger: logger}
}

// Append records one interaction. The returned bool reports whether the
// event landed in the usage ledger; admin-sourced events return false and
// are recorded in the audit trail instead.
func (s *LedgerService) Append(ctx context.Context, params domain.AppendParams) (bool, error) {
	const op = "LedgerService.Append"

	if params.Type == "" {
		return false, domain.Invalid(op, "event type is required")
	}
	if params.Source == "" {
		params.Source = domain.EventSourceCustomer
	}
	if params.Timestamp.IsZero() {
		params.Timestamp = time.Now().UTC()
	}

	if params.Source != domain.EventSourceCustomer {
		err := s.store.InsertAuditEntry(ctx, &domain.AuditEntry{
			TenantID:    &params.TenantID,
			Action:      params.Type,
			PerformedBy: params.UserID,
			Timestamp:   params.Timestamp,
		})
		if err != nil {
			return false, err
		}
		return false, nil
	}

	_, err := s.store.InsertUsageEvent(ctx, &domain.UsageEvent{
		TenantID:  params.TenantID,
		UserID:    params.UserID,
		Type:      params.Type,
		Payload:   params.Payload,
		Source:    params.Source,
		Timestamp: params.Timestamp,
	})
	if err != nil {
		return false, err
	}

	metrics.LedgerEventsTotal.WithLabelValues(params.Type).Inc()
	return true, nil
}
