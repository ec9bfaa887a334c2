package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/repository"
)

func seedTenant(t *testing.T, store *repository.Memory, plan domain.Plan) *domain.Tenant {
	t.Helper()
	tenant, err := store.CreateTenant(context.Background(), &domain.Tenant{
		Email:  "owner@example.com",
		Plan:   plan,
		Status: domain.TenantStatusActive,
	})
	require.NoError(t, err)
	return tenant
}

func seedEvents(t *testing.T, store *repository.Memory, tenantID int64, eventType string, n int, ts time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := store.InsertUsageEvent(context.Background(), &domain.UsageEvent{
			TenantID:  tenantID,
			UserID:    "visitor-1",
			Type:      eventType,
			Source:    domain.EventSourceCustomer,
			Timestamp: ts,
		})
		require.NoError(t, err)
	}
}

func TestSnapshotQuotaAtLimit(t *testing.T) {
	store := repository.NewMemory()
	svc := NewAnalyticsService(store, testLogger())
	tenant := seedTenant(t, store, domain.PlanDemo)

	seedEvents(t, store, tenant.ID, domain.EventAIRequest, 100, time.Now().UTC())

	snap, err := svc.Snapshot(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(100), snap.AIUsed)
	assert.Equal(t, 100, snap.AILimit)
	assert.Equal(t, int64(0), snap.AIRemaining)
	assert.False(t, snap.AIUnlimited)
}

func TestSnapshotQuotaOverLimitGoesNegative(t *testing.T) {
	store := repository.NewMemory()
	svc := NewAnalyticsService(store, testLogger())
	tenant := seedTenant(t, store, domain.PlanDemo)

	seedEvents(t, store, tenant.ID, domain.EventAIRequest, 101, time.Now().UTC())

	snap, err := svc.Snapshot(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(101), snap.AIUsed)
	assert.Equal(t, int64(-1), snap.AIRemaining)
}

func TestSnapshotQuotaCountsAIRequestsOnly(t *testing.T) {
	store := repository.NewMemory()
	svc := NewAnalyticsService(store, testLogger())
	tenant := seedTenant(t, store, domain.PlanDemo)

	// Chat-reply ledger entries are not quota events.
	now := time.Now().UTC()
	seedEvents(t, store, tenant.ID, domain.EventChatAI, 40, now)
	seedEvents(t, store, tenant.ID, domain.EventChatFAQ, 10, now)
	seedEvents(t, store, tenant.ID, domain.EventAIRequest, 7, now)

	snap, err := svc.Snapshot(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(7), snap.AIUsed)
	assert.Equal(t, int64(93), snap.AIRemaining)
}

func TestSnapshotPremiumIsUnlimited(t *testing.T) {
	store := repository.NewMemory()
	svc := NewAnalyticsService(store, testLogger())
	tenant := seedTenant(t, store, domain.PlanPremium)

	seedEvents(t, store, tenant.ID, domain.EventAIRequest, 5000, time.Now().UTC())

	snap, err := svc.Snapshot(context.Background(), tenant)
	require.NoError(t, err)
	assert.True(t, snap.AIUnlimited)
	assert.Zero(t, snap.AILimit)
	assert.Zero(t, snap.AIRemaining)
}

func TestSnapshotExcludesLastMonthsAIUsage(t *testing.T) {
	store := repository.NewMemory()
	svc := NewAnalyticsService(store, testLogger())
	tenant := seedTenant(t, store, domain.PlanDemo)

	now := time.Now().UTC()
	lastMonth := monthStart(now).Add(-time.Hour)
	seedEvents(t, store, tenant.ID, domain.EventAIRequest, 10, lastMonth)
	seedEvents(t, store, tenant.ID, domain.EventAIRequest, 3, now)

	snap, err := svc.Snapshot(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.AIUsed)
}

func TestSnapshotUnknownPlanFallsBackToDemo(t *testing.T) {
	store := repository.NewMemory()
	svc := NewAnalyticsService(store, testLogger())
	tenant := seedTenant(t, store, domain.Plan("enterprise"))

	snap, err := svc.Snapshot(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.FAQLimit)
	assert.Equal(t, 100, snap.AILimit)
}

func TestSnapshotCountsAndSeries(t *testing.T) {
	store := repository.NewMemory()
	svc := NewAnalyticsService(store, testLogger())
	tenant := seedTenant(t, store, domain.PlanBasic)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := store.UpsertFAQ(ctx, domain.FAQUpsertParams{TenantID: tenant.ID, Question: "Q", Answer: "A"})
	require.NoError(t, err)

	for _, ev := range []domain.UsageEvent{
		{TenantID: tenant.ID, UserID: "u1", Type: domain.EventFAQClick, Source: domain.EventSourceCustomer, Timestamp: now},
		{TenantID: tenant.ID, UserID: "u2", Type: domain.EventNewLead, Source: domain.EventSourceCustomer, Timestamp: now},
		{TenantID: tenant.ID, UserID: "owner", Type: domain.EventFAQClick, Source: domain.EventSourceAdmin, Timestamp: now},
	} {
		e := ev
		_, err := store.InsertUsageEvent(ctx, &e)
		require.NoError(t, err)
	}

	snap, err := svc.Snapshot(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.TotalInteractions)
	assert.Equal(t, int64(2), snap.ActiveUsers)
	assert.Equal(t, int64(1), snap.FAQCreated)
	require.Len(t, snap.Daily, 1)
	assert.Equal(t, int64(1), snap.Daily[0].ByType[domain.EventFAQClick])
	assert.Len(t, snap.Events, 2)
}

func TestSnapshotDailySeriesChartsClicksAndAIRequests(t *testing.T) {
	store := repository.NewMemory()
	svc := NewAnalyticsService(store, testLogger())
	tenant := seedTenant(t, store, domain.PlanBasic)
	now := time.Now().UTC()

	seedEvents(t, store, tenant.ID, domain.EventFAQClick, 2, now)
	seedEvents(t, store, tenant.ID, domain.EventAIRequest, 1, now)
	// Chat-reply events show up in totals but not in the chart.
	seedEvents(t, store, tenant.ID, domain.EventChatAI, 4, now)

	snap, err := svc.Snapshot(context.Background(), tenant)
	require.NoError(t, err)
	require.Len(t, snap.Daily, 1)
	assert.Equal(t, int64(2), snap.Daily[0].ByType[domain.EventFAQClick])
	assert.Equal(t, int64(1), snap.Daily[0].ByType[domain.EventAIRequest])
	assert.NotContains(t, snap.Daily[0].ByType, domain.EventChatAI)
	assert.Equal(t, int64(7), snap.TotalInteractions)
}
