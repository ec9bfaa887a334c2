// Package repository provides persistence for tenants, FAQs, sessions and
// the usage ledger. Two implementations exist: Postgres for production and
// an in-memory store for tests and local development. Both satisfy Store
// and are expected to behave identically at the interface boundary.
package repository

import (
	"context"
	"time"

	"github.com/aethermind-ai-hash/asb/internal/domain"
)

// Store is the persistence boundary used by the service layer.
//
// All aggregate queries over the usage ledger (counts, distinct users,
// daily series) consider customer-sourced events only; admin activity is
// visible solely through ListAuditEntries.
type Store interface {
	// Tenants
	CreateTenant(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error)
	GetTenantByID(ctx context.Context, id int64) (*domain.Tenant, error)
	GetTenantByEmail(ctx context.Context, email string) (*domain.Tenant, error)
	UpdateTenantProfile(ctx context.Context, params domain.ProfileUpdateParams) (*domain.Tenant, error)
	SetIntegrationCode(ctx context.Context, tenantID int64, code string) error

	// Welcome messages
	GetWelcomeMessage(ctx context.Context, tenantID int64) (string, error)
	SetWelcomeMessage(ctx context.Context, tenantID int64, message string) error

	// FAQs
	UpsertFAQ(ctx context.Context, params domain.FAQUpsertParams) (*domain.FAQ, error)
	DeleteFAQByID(ctx context.Context, tenantID, id int64) error
	DeleteFAQByQuestion(ctx context.Context, tenantID int64, question string) error
	ListFAQs(ctx context.Context, tenantID int64) ([]domain.FAQ, error)
	CountFAQs(ctx context.Context, tenantID int64) (int64, error)

	// Usage ledger (append-only)
	InsertUsageEvent(ctx context.Context, ev *domain.UsageEvent) (*domain.UsageEvent, error)
	CountEventsByType(ctx context.Context, tenantID int64, eventType string, since time.Time) (int64, error)
	CountTotalEvents(ctx context.Context, tenantID int64) (int64, error)
	CountDistinctUsers(ctx context.Context, tenantID int64, since time.Time) (int64, error)
	DailyEventCounts(ctx context.Context, tenantID int64, types []string, since time.Time) ([]domain.DailyCount, error)
	ListEvents(ctx context.Context, tenantID int64, limit int) ([]domain.UsageEvent, error)

	// Audit trail
	InsertAuditEntry(ctx context.Context, entry *domain.AuditEntry) error
	ListAuditEntries(ctx context.Context, tenantID int64, limit int) ([]domain.AuditEntry, error)

	// Sessions
	CreateSession(ctx context.Context, s *domain.Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
