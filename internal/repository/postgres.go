package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aethermind-ai-hash/asb/internal/domain"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Postgres implements Store on a *sql.DB using the pgx stdlib driver.
type Postgres struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgres creates a Postgres-backed store
func NewPostgres(db *sql.DB, logger *slog.Logger) *Postgres {
	return &Postgres{db: db, logger: logger}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// CreateTenant inserts a new tenant row. A duplicate email yields ECONFLICT.
func (p *Postgres) CreateTenant(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	const op = "Postgres.CreateTenant"

	row := p.db.QueryRowContext(ctx, `
		INSERT INTO tenants (email, name, company, role, plan, status, profile_picture, integration_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		t.Email, t.Name, t.Company, t.Role, string(t.Plan), string(t.Status),
		t.ProfilePicture, t.IntegrationCode,
	)

	out := *t
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "tenant with this email already exists")
		}
		return nil, domain.Internal(err, op, "database operation failed")
	}
	return &out, nil
}

func (p *Postgres) GetTenantByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	const op = "Postgres.GetTenantByID"
	return p.scanTenant(op, p.db.QueryRowContext(ctx, `
		SELECT id, email, name, company, role, plan, status, profile_picture, integration_code, created_at, updated_at
		FROM tenants WHERE id = $1`, id))
}

func (p *Postgres) GetTenantByEmail(ctx context.Context, email string) (*domain.Tenant, error) {
	const op = "Postgres.GetTenantByEmail"
	return p.scanTenant(op, p.db.QueryRowContext(ctx, `
		SELECT id, email, name, company, role, plan, status, profile_picture, integration_code, created_at, updated_at
		FROM tenants WHERE email = $1`, email))
}

func (p *Postgres) scanTenant(op string, row *sql.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	var plan, status string
	err := row.Scan(&t.ID, &t.Email, &t.Name, &t.Company, &t.Role, &plan, &status,
		&t.ProfilePicture, &t.IntegrationCode, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(op, "tenant")
	}
	if err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	t.Plan = domain.Plan(plan)
	t.Status = domain.TenantStatus(status)
	return &t, nil
}

// UpdateTenantProfile updates the editable profile fields and returns the
// fresh row. Email uniqueness is enforced by the store.
func (p *Postgres) UpdateTenantProfile(ctx context.Context, params domain.ProfileUpdateParams) (*domain.Tenant, error) {
	const op = "Postgres.UpdateTenantProfile"

	res, err := p.db.ExecContext(ctx, `
		UPDATE tenants SET name = $2, email = $3, company = $4, role = $5, updated_at = now()
		WHERE id = $1`,
		params.TenantID, params.Name, params.Email, params.Company, params.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "email already in use")
		}
		return nil, domain.Internal(err, op, "database operation failed")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.NotFound(op, "tenant")
	}
	return p.GetTenantByID(ctx, params.TenantID)
}

func (p *Postgres) SetIntegrationCode(ctx context.Context, tenantID int64, code string) error {
	const op = "Postgres.SetIntegrationCode"

	res, err := p.db.ExecContext(ctx, `
		UPDATE tenants SET integration_code = $2, updated_at = now() WHERE id = $1`,
		tenantID, code,
	)
	if err != nil {
		return domain.Internal(err, op, "database operation failed")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound(op, "tenant")
	}
	return nil
}

// GetWelcomeMessage returns the tenant's stored welcome message.
// ENOTFOUND means the tenant never set one; the caller applies the default.
func (p *Postgres) GetWelcomeMessage(ctx context.Context, tenantID int64) (string, error) {
	const op = "Postgres.GetWelcomeMessage"

	var msg string
	err := p.db.QueryRowContext(ctx,
		`SELECT message FROM welcome_messages WHERE tenant_id = $1`, tenantID,
	).Scan(&msg)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.NotFound(op, "welcome message")
	}
	if err != nil {
		return "", domain.Internal(err, op, "database operation failed")
	}
	return msg, nil
}

func (p *Postgres) SetWelcomeMessage(ctx context.Context, tenantID int64, message string) error {
	const op = "Postgres.SetWelcomeMessage"

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO welcome_messages (tenant_id, message)
		VALUES ($1, $2)
		ON CONFLICT (tenant_id) DO UPDATE SET message = EXCLUDED.message, updated_at = now()`,
		tenantID, message,
	)
	if err != nil {
		return domain.Internal(err, op, "database operation failed")
	}
	return nil
}

// UpsertFAQ creates the FAQ or, when the tenant already has the question,
// overwrites its answer and popular flag.
func (p *Postgres) UpsertFAQ(ctx context.Context, params domain.FAQUpsertParams) (*domain.FAQ, error) {
	const op = "Postgres.UpsertFAQ"

	row := p.db.QueryRowContext(ctx, `
		INSERT INTO faqs (tenant_id, question, answer, popular)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, question)
		DO UPDATE SET answer = EXCLUDED.answer, popular = EXCLUDED.popular
		RETURNING id`,
		params.TenantID, params.Question, params.Answer, params.Popular,
	)

	faq := domain.FAQ{
		TenantID: params.TenantID,
		Question: params.Question,
		Answer:   params.Answer,
		Popular:  params.Popular,
	}
	if err := row.Scan(&faq.ID); err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	return &faq, nil
}

// DeleteFAQByID removes an FAQ. Deleting a missing id is not an error.
func (p *Postgres) DeleteFAQByID(ctx context.Context, tenantID, id int64) error {
	const op = "Postgres.DeleteFAQByID"

	_, err := p.db.ExecContext(ctx,
		`DELETE FROM faqs WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return domain.Internal(err, op, "database operation failed")
	}
	return nil
}

// DeleteFAQByQuestion removes an FAQ by exact question text. Idempotent.
func (p *Postgres) DeleteFAQByQuestion(ctx context.Context, tenantID int64, question string) error {
	const op = "Postgres.DeleteFAQByQuestion"

	_, err := p.db.ExecContext(ctx,
		`DELETE FROM faqs WHERE tenant_id = $1 AND question = $2`, tenantID, question)
	if err != nil {
		return domain.Internal(err, op, "database operation failed")
	}
	return nil
}

// ListFAQs returns all of a tenant's FAQs, popular entries first, then
// alphabetically by question.
func (p *Postgres) ListFAQs(ctx context.Context, tenantID int64) ([]domain.FAQ, error) {
	const op = "Postgres.ListFAQs"

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, tenant_id, question, answer, popular
		FROM faqs WHERE tenant_id = $1
		ORDER BY popular DESC, question ASC`, tenantID)
	if err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	defer rows.Close()

	faqs := []domain.FAQ{}
	for rows.Next() {
		var f domain.FAQ
		if err := rows.Scan(&f.ID, &f.TenantID, &f.Question, &f.Answer, &f.Popular); err != nil {
			return nil, domain.Internal(err, op, "database operation failed")
		}
		faqs = append(faqs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	return faqs, nil
}

func (p *Postgres) CountFAQs(ctx context.Context, tenantID int64) (int64, error) {
	const op = "Postgres.CountFAQs"

	var n int64
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM faqs WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, domain.Internal(err, op, "database operation failed")
	}
	return n, nil
}

// InsertUsageEvent appends one event to the ledger.
func (p *Postgres) InsertUsageEvent(ctx context.Context, ev *domain.UsageEvent) (*domain.UsageEvent, error) {
	const op = "Postgres.InsertUsageEvent"

	payload, err := ev.Payload.Encode()
	if err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}

	out := *ev
	err = p.db.QueryRowContext(ctx, `
		INSERT INTO usage_events (tenant_id, user_id, type, payload, source, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		ev.TenantID, ev.UserID, ev.Type, payload, string(ev.Source), ev.Timestamp,
	).Scan(&out.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	return &out, nil
}

func (p *Postgres) CountEventsByType(ctx context.Context, tenantID int64, eventType string, since time.Time) (int64, error) {
	const op = "Postgres.CountEventsByType"

	var n int64
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM usage_events
		WHERE tenant_id = $1 AND source = 'customer' AND type = $2 AND timestamp >= $3`,
		tenantID, eventType, since).Scan(&n)
	if err != nil {
		return 0, domain.Internal(err, op, "database operation failed")
	}
	return n, nil
}

func (p *Postgres) CountTotalEvents(ctx context.Context, tenantID int64) (int64, error) {
	const op = "Postgres.CountTotalEvents"

	var n int64
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM usage_events
		WHERE tenant_id = $1 AND source = 'customer'`, tenantID).Scan(&n)
	if err != nil {
		return 0, domain.Internal(err, op, "database operation failed")
	}
	return n, nil
}

// CountDistinctUsers counts distinct non-empty user ids since the cutoff.
func (p *Postgres) CountDistinctUsers(ctx context.Context, tenantID int64, since time.Time) (int64, error) {
	const op = "Postgres.CountDistinctUsers"

	var n int64
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT user_id) FROM usage_events
		WHERE tenant_id = $1 AND source = 'customer' AND user_id <> '' AND timestamp >= $2`,
		tenantID, since).Scan(&n)
	if err != nil {
		return 0, domain.Internal(err, op, "database operation failed")
	}
	return n, nil
}

// DailyEventCounts returns per-day counts broken down by type, ascending by
// day. Days with no matching events do not appear in the result.
func (p *Postgres) DailyEventCounts(ctx context.Context, tenantID int64, types []string, since time.Time) ([]domain.DailyCount, error) {
	const op = "Postgres.DailyEventCounts"

	rows, err := p.db.QueryContext(ctx, `
		SELECT to_char(timestamp AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, type, COUNT(*)
		FROM usage_events
		WHERE tenant_id = $1 AND source = 'customer' AND type = ANY($2) AND timestamp >= $3
		GROUP BY 1, 2
		ORDER BY 1 ASC`,
		tenantID, types, since)
	if err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	defer rows.Close()

	var series []domain.DailyCount
	byDay := map[string]int{}
	for rows.Next() {
		var day, typ string
		var count int64
		if err := rows.Scan(&day, &typ, &count); err != nil {
			return nil, domain.Internal(err, op, "database operation failed")
		}
		idx, ok := byDay[day]
		if !ok {
			series = append(series, domain.DailyCount{Day: day, ByType: map[string]int64{}})
			idx = len(series) - 1
			byDay[day] = idx
		}
		series[idx].ByType[typ] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	return series, nil
}

// ListEvents returns the tenant's last `limit` customer events in
// ascending timestamp order.
func (p *Postgres) ListEvents(ctx context.Context, tenantID int64, limit int) ([]domain.UsageEvent, error) {
	const op = "Postgres.ListEvents"

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, tenant_id, user_id, type, payload, source, timestamp FROM (
			SELECT id, tenant_id, user_id, type, payload, source, timestamp
			FROM usage_events
			WHERE tenant_id = $1 AND source = 'customer'
			ORDER BY timestamp DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY timestamp ASC, id ASC`, tenantID, limit)
	if err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	defer rows.Close()

	events := []domain.UsageEvent{}
	for rows.Next() {
		var ev domain.UsageEvent
		var payload []byte
		var source string
		if err := rows.Scan(&ev.ID, &ev.TenantID, &ev.UserID, &ev.Type, &payload, &source, &ev.Timestamp); err != nil {
			return nil, domain.Internal(err, op, "database operation failed")
		}
		ev.Source = domain.EventSource(source)
		if ev.Payload, err = domain.DecodePayload(payload); err != nil {
			return nil, domain.Internal(err, op, "database operation failed")
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	return events, nil
}

func (p *Postgres) InsertAuditEntry(ctx context.Context, entry *domain.AuditEntry) error {
	const op = "Postgres.InsertAuditEntry"

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO audit_log (tenant_id, action, performed_by, timestamp)
		VALUES ($1, $2, $3, $4)`,
		entry.TenantID, entry.Action, entry.PerformedBy, entry.Timestamp)
	if err != nil {
		return domain.Internal(err, op, "database operation failed")
	}
	return nil
}

func (p *Postgres) ListAuditEntries(ctx context.Context, tenantID int64, limit int) ([]domain.AuditEntry, error) {
	const op = "Postgres.ListAuditEntries"

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, tenant_id, action, performed_by, timestamp
		FROM audit_log
		WHERE tenant_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2`, tenantID, limit)
	if err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Action, &e.PerformedBy, &e.Timestamp); err != nil {
			return nil, domain.Internal(err, op, "database operation failed")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	return entries, nil
}

func (p *Postgres) CreateSession(ctx context.Context, s *domain.Session) error {
	const op = "Postgres.CreateSession"

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO sessions (id, tenant_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.TenantID, s.TokenHash, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return domain.Internal(err, op, "database operation failed")
	}
	return nil
}

func (p *Postgres) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	const op = "Postgres.GetSessionByTokenHash"

	var s domain.Session
	err := p.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, token_hash, expires_at, created_at
		FROM sessions WHERE token_hash = $1`, tokenHash,
	).Scan(&s.ID, &s.TenantID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(op, "session")
	}
	if err != nil {
		return nil, domain.Internal(err, op, "database operation failed")
	}
	return &s, nil
}

func (p *Postgres) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	const op = "Postgres.DeleteSessionByTokenHash"

	_, err := p.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return domain.Internal(err, op, "database operation failed")
	}
	return nil
}

func (p *Postgres) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	const op = "Postgres.DeleteExpiredSessions"

	res, err := p.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, domain.Internal(err, op, "database operation failed")
	}
	n, _ := res.RowsAffected()
	return n, nil
}
