package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethermind-ai-hash/asb/internal/domain"
)

func newTestTenant(t *testing.T, store *Memory, email string) *domain.Tenant {
	t.Helper()
	tenant, err := store.CreateTenant(context.Background(), &domain.Tenant{
		Email:  email,
		Plan:   domain.PlanDemo,
		Status: domain.TenantStatusActive,
	})
	require.NoError(t, err)
	return tenant
}

func TestCreateTenantDuplicateEmail(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	newTestTenant(t, store, "owner@example.com")

	_, err := store.CreateTenant(ctx, &domain.Tenant{Email: "owner@example.com"})
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestUpsertFAQOverwritesExistingQuestion(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	tenant := newTestTenant(t, store, "owner@example.com")

	first, err := store.UpsertFAQ(ctx, domain.FAQUpsertParams{
		TenantID: tenant.ID,
		Question: "What are your hours?",
		Answer:   "9 to 5",
	})
	require.NoError(t, err)

	second, err := store.UpsertFAQ(ctx, domain.FAQUpsertParams{
		TenantID: tenant.ID,
		Question: "What are your hours?",
		Answer:   "24/7",
		Popular:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "24/7", second.Answer)
	assert.True(t, second.Popular)

	n, err := store.CountFAQs(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpsertFAQSameQuestionDifferentTenants(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	a := newTestTenant(t, store, "a@example.com")
	b := newTestTenant(t, store, "b@example.com")

	_, err := store.UpsertFAQ(ctx, domain.FAQUpsertParams{TenantID: a.ID, Question: "Q", Answer: "for a"})
	require.NoError(t, err)
	_, err = store.UpsertFAQ(ctx, domain.FAQUpsertParams{TenantID: b.ID, Question: "Q", Answer: "for b"})
	require.NoError(t, err)

	faqsA, err := store.ListFAQs(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, faqsA, 1)
	assert.Equal(t, "for a", faqsA[0].Answer)
}

func TestDeleteFAQIsIdempotent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	tenant := newTestTenant(t, store, "owner@example.com")

	faq, err := store.UpsertFAQ(ctx, domain.FAQUpsertParams{
		TenantID: tenant.ID, Question: "Q", Answer: "A",
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteFAQByID(ctx, tenant.ID, faq.ID))
	require.NoError(t, store.DeleteFAQByID(ctx, tenant.ID, faq.ID))
	require.NoError(t, store.DeleteFAQByQuestion(ctx, tenant.ID, "never existed"))

	n, err := store.CountFAQs(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListFAQsOrdersPopularFirst(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	tenant := newTestTenant(t, store, "owner@example.com")

	for _, p := range []domain.FAQUpsertParams{
		{TenantID: tenant.ID, Question: "zebra", Answer: "a"},
		{TenantID: tenant.ID, Question: "apple", Answer: "a"},
		{TenantID: tenant.ID, Question: "mango", Answer: "a", Popular: true},
	} {
		_, err := store.UpsertFAQ(ctx, p)
		require.NoError(t, err)
	}

	faqs, err := store.ListFAQs(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, faqs, 3)
	assert.Equal(t, "mango", faqs[0].Question)
	assert.Equal(t, "apple", faqs[1].Question)
	assert.Equal(t, "zebra", faqs[2].Question)
}

func appendEvent(t *testing.T, store *Memory, tenantID int64, userID, typ string, source domain.EventSource, ts time.Time) {
	t.Helper()
	_, err := store.InsertUsageEvent(context.Background(), &domain.UsageEvent{
		TenantID:  tenantID,
		UserID:    userID,
		Type:      typ,
		Source:    source,
		Timestamp: ts,
	})
	require.NoError(t, err)
}

func TestAggregatesExcludeAdminEvents(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	tenant := newTestTenant(t, store, "owner@example.com")
	now := time.Now().UTC()

	appendEvent(t, store, tenant.ID, "visitor-1", domain.EventChatFAQ, domain.EventSourceCustomer, now)
	appendEvent(t, store, tenant.ID, "owner@example.com", domain.EventChatFAQ, domain.EventSourceAdmin, now)

	total, err := store.CountTotalEvents(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	users, err := store.CountDistinctUsers(ctx, tenant.ID, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)

	events, err := store.ListEvents(ctx, tenant.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "visitor-1", events[0].UserID)
}

func TestListEventsAscendingWithTailCap(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	tenant := newTestTenant(t, store, "owner@example.com")
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		appendEvent(t, store, tenant.ID, "u1", domain.EventFAQClick, domain.EventSourceCustomer, base.Add(time.Duration(i)*time.Minute))
	}

	events, err := store.ListEvents(ctx, tenant.ID, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Only the most recent entries survive the cap, oldest of them first.
	assert.Equal(t, base.Add(2*time.Minute), events[0].Timestamp)
	assert.Equal(t, base.Add(3*time.Minute), events[1].Timestamp)
	assert.Equal(t, base.Add(4*time.Minute), events[2].Timestamp)
}

func TestDailyEventCountsOmitsEmptyDays(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	tenant := newTestTenant(t, store, "owner@example.com")

	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)

	appendEvent(t, store, tenant.ID, "u1", domain.EventChatFAQ, domain.EventSourceCustomer, day1)
	appendEvent(t, store, tenant.ID, "u1", domain.EventChatFAQ, domain.EventSourceCustomer, day1.Add(time.Hour))
	appendEvent(t, store, tenant.ID, "u2", domain.EventChatAI, domain.EventSourceCustomer, day3)

	series, err := store.DailyEventCounts(ctx, tenant.ID,
		[]string{domain.EventChatFAQ, domain.EventChatAI}, day1.Add(-time.Hour))
	require.NoError(t, err)

	// August 2nd had no events and must not appear as a zero entry.
	require.Len(t, series, 2)
	assert.Equal(t, "2026-08-01", series[0].Day)
	assert.Equal(t, int64(2), series[0].ByType[domain.EventChatFAQ])
	assert.Equal(t, "2026-08-03", series[1].Day)
	assert.Equal(t, int64(1), series[1].ByType[domain.EventChatAI])
}

func TestCountEventsByTypeHonorsCutoff(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	tenant := newTestTenant(t, store, "owner@example.com")

	old := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	appendEvent(t, store, tenant.ID, "u1", domain.EventChatAI, domain.EventSourceCustomer, old)
	appendEvent(t, store, tenant.ID, "u1", domain.EventChatAI, domain.EventSourceCustomer, recent)

	monthStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	n, err := store.CountEventsByType(ctx, tenant.ID, domain.EventChatAI, monthStart)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSessionLifecycle(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	tenant := newTestTenant(t, store, "owner@example.com")

	s := &domain.Session{
		TenantID:  tenant.ID,
		TokenHash: "hash-1",
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.CreateSession(ctx, s))

	got, err := store.GetSessionByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.TenantID)

	require.NoError(t, store.DeleteSessionByTokenHash(ctx, "hash-1"))
	_, err = store.GetSessionByTokenHash(ctx, "hash-1")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestDeleteExpiredSessions(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	tenant := newTestTenant(t, store, "owner@example.com")

	require.NoError(t, store.CreateSession(ctx, &domain.Session{
		TenantID: tenant.ID, TokenHash: "live", ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, store.CreateSession(ctx, &domain.Session{
		TenantID: tenant.ID, TokenHash: "dead", ExpiresAt: time.Now().Add(-time.Hour),
	}))

	n, err := store.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.GetSessionByTokenHash(ctx, "live")
	assert.NoError(t, err)
}

func TestWelcomeMessageRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	tenant := newTestTenant(t, store, "owner@example.com")

	_, err := store.GetWelcomeMessage(ctx, tenant.ID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	require.NoError(t, store.SetWelcomeMessage(ctx, tenant.ID, "Welcome aboard!"))

	msg, err := store.GetWelcomeMessage(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Welcome aboard!", msg)
}
