package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/repository"
)

// activeUserWindow is how far back the distinct-user count looks.
const activeUserWindow = 30 * 24 * time.Hour

// snapshotEventLimit caps the recent-events list in a snapshot.
const snapshotEventLimit = 50

// dailySeriesTypes are the event kinds charted in the daily time series.
var dailySeriesTypes = []string{
	domain.EventFAQClick,
	domain.EventAIRequest,
}

// AnalyticsService derives dashboard numbers from the usage ledger.
type AnalyticsService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewAnalyticsService creates an analytics service
func NewAnalyticsService(store repository.Store, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, logger: logger}
}

// Snapshot computes the tenant's analytics view from scratch.
//
// AI usage counts ai_request ledger events in the current calendar month.
// Remaining quota is limit minus used and may go negative; nothing here
// blocks traffic when a tenant runs over.
func (s *AnalyticsService) Snapshot(ctx context.Context, tenant *domain.Tenant) (*domain.Snapshot, error) {
	now := time.Now().UTC()
	limits := domain.LimitsFor(tenant.Plan)

	total, err := s.store.CountTotalEvents(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}

	activeUsers, err := s.store.CountDistinctUsers(ctx, tenant.ID, now.Add(-activeUserWindow))
	if err != nil {
		return nil, err
	}

	faqCount, err := s.store.CountFAQs(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}

	aiUsed, err := s.store.CountEventsByType(ctx, tenant.ID, domain.EventAIRequest, monthStart(now))
	if err != nil {
		return nil, err
	}

	daily, err := s.store.DailyEventCounts(ctx, tenant.ID, dailySeriesTypes, now.Add(-activeUserWindow))
	if err != nil {
		return nil, err
	}

	events, err := s.store.ListEvents(ctx, tenant.ID, snapshotEventLimit)
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		TotalInteractions: total,
		ActiveUsers:       activeUsers,
		FAQCreated:        faqCount,
		FAQLimit:          limits.FAQLimit,
		AIUsed:            aiUsed,
		AIUnlimited:       limits.UnlimitedAI,
		Daily:             daily,
		Events:            events,
	}
	if !limits.UnlimitedAI {
		snap.AILimit = limits.MonthlyAI
		snap.AIRemaining = int64(limits.MonthlyAI) - aiUsed
	}
	return snap, nil
}

// monthStart returns midnight UTC on the first of now's month.
func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
