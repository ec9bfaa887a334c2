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

func TestAppendDefaultsToCustomerSource(t *testing.T) {
	store := repository.NewMemory()
	ledger := NewLedgerService(store, testLogger())
	ctx := context.Background()

	recorded, err := ledger.Append(ctx, domain.AppendParams{
		TenantID: 1,
		UserID:   "visitor-1",
		Type:     domain.EventFAQClick,
	})
	require.NoError(t, err)
	assert.True(t, recorded)

	events, err := store.ListEvents(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventSourceCustomer, events[0].Source)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestAppendAdminGoesToAuditTrail(t *testing.T) {
	store := repository.NewMemory()
	ledger := NewLedgerService(store, testLogger())
	ctx := context.Background()

	recorded, err := ledger.Append(ctx, domain.AppendParams{
		TenantID: 1,
		UserID:   "owner@example.com",
		Type:     domain.EventFAQClick,
		Source:   domain.EventSourceAdmin,
	})
	require.NoError(t, err)
	assert.False(t, recorded)

	// Nothing in the ledger, one audit entry.
	events, err := store.ListEvents(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, events)

	entries, err := store.ListAuditEntries(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EventFAQClick, entries[0].Action)
	assert.Equal(t, "owner@example.com", entries[0].PerformedBy)
}

func TestAppendRequiresType(t *testing.T) {
	ledger := NewLedgerService(repository.NewMemory(), testLogger())

	_, err := ledger.Append(context.Background(), domain.AppendParams{TenantID: 1})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestAppendPreservesExplicitTimestamp(t *testing.T) {
	store := repository.NewMemory()
	ledger := NewLedgerService(store, testLogger())
	ctx := context.Background()

	ts := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	_, err := ledger.Append(ctx, domain.AppendParams{
		TenantID:  1,
		Type:      domain.EventNewLead,
		Timestamp: ts,
	})
	require.NoError(t, err)

	events, err := store.ListEvents(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(ts))
}
