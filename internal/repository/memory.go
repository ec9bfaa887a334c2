package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aethermind-ai-hash/asb/internal/domain"
)

// Memory implements Store entirely in process memory.
//
// It backs the test suite and the memory store driver for local
// development. Nothing persists across restarts.
type Memory struct {
	mu sync.RWMutex

	nextTenantID int64
	nextFAQID    int64
	nextEventID  int64
	nextAuditID  int64

	tenants  map[int64]domain.Tenant
	byEmail  map[string]int64
	welcome  map[int64]string
	faqs     map[int64]domain.FAQ
	events   []domain.UsageEvent
	audits   []domain.AuditEntry
	sessions map[string]domain.Session // keyed by token hash
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		tenants:  make(map[int64]domain.Tenant),
		byEmail:  make(map[string]int64),
		welcome:  make(map[int64]string),
		faqs:     make(map[int64]domain.FAQ),
		sessions: make(map[string]domain.Session),
	}
}

func (m *Memory) CreateTenant(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	const op = "Memory.CreateTenant"

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[t.Email]; exists {
		return nil, domain.Conflict(op, "tenant with this email already exists")
	}

	m.nextTenantID++
	out := *t
	out.ID = m.nextTenantID
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now

	m.tenants[out.ID] = out
	m.byEmail[out.Email] = out.ID
	return &out, nil
}

func (m *Memory) GetTenantByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	const op = "Memory.GetTenantByID"

	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tenants[id]
	if !ok {
		return nil, domain.NotFound(op, "tenant")
	}
	out := t
	return &out, nil
}

func (m *Memory) GetTenantByEmail(ctx context.Context, email string) (*domain.Tenant, error) {
	const op = "Memory.GetTenantByEmail"

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, domain.NotFound(op, "tenant")
	}
	out := m.tenants[id]
	return &out, nil
}

func (m *Memory) UpdateTenantProfile(ctx context.Context, params domain.ProfileUpdateParams) (*domain.Tenant, error) {
	const op = "Memory.UpdateTenantProfile"

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tenants[params.TenantID]
	if !ok {
		return nil, domain.NotFound(op, "tenant")
	}
	if id, exists := m.byEmail[params.Email]; exists && id != params.TenantID {
		return nil, domain.Conflict(op, "email already in use")
	}

	delete(m.byEmail, t.Email)
	t.Name = params.Name
	t.Email = params.Email
	t.Company = params.Company
	t.Role = params.Role
	t.UpdatedAt = time.Now().UTC()

	m.tenants[t.ID] = t
	m.byEmail[t.Email] = t.ID
	out := t
	return &out, nil
}

func (m *Memory) SetIntegrationCode(ctx context.Context, tenantID int64, code string) error {
	const op = "Memory.SetIntegrationCode"

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tenants[tenantID]
	if !ok {
		return domain.NotFound(op, "tenant")
	}
	t.IntegrationCode = code
	t.UpdatedAt = time.Now().UTC()
	m.tenants[tenantID] = t
	return nil
}

func (m *Memory) GetWelcomeMessage(ctx context.Context, tenantID int64) (string, error) {
	const op = "Memory.GetWelcomeMessage"

	m.mu.RLock()
	defer m.mu.RUnlock()

	msg, ok := m.welcome[tenantID]
	if !ok {
		return "", domain.NotFound(op, "welcome message")
	}
	return msg, nil
}

func (m *Memory) SetWelcomeMessage(ctx context.Context, tenantID int64, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.welcome[tenantID] = message
	return nil
}

func (m *Memory) UpsertFAQ(ctx context.Context, params domain.FAQUpsertParams) (*domain.FAQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, f := range m.faqs {
		if f.TenantID == params.TenantID && f.Question == params.Question {
			f.Answer = params.Answer
			f.Popular = params.Popular
			m.faqs[id] = f
			out := f
			return &out, nil
		}
	}

	m.nextFAQID++
	f := domain.FAQ{
		ID:       m.nextFAQID,
		TenantID: params.TenantID,
		Question: params.Question,
		Answer:   params.Answer,
		Popular:  params.Popular,
	}
	m.faqs[f.ID] = f
	out := f
	return &out, nil
}

func (m *Memory) DeleteFAQByID(ctx context.Context, tenantID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.faqs[id]; ok && f.TenantID == tenantID {
		delete(m.faqs, id)
	}
	return nil
}

func (m *Memory) DeleteFAQByQuestion(ctx context.Context, tenantID int64, question string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, f := range m.faqs {
		if f.TenantID == tenantID && f.Question == question {
			delete(m.faqs, id)
		}
	}
	return nil
}

func (m *Memory) ListFAQs(ctx context.Context, tenantID int64) ([]domain.FAQ, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	faqs := []domain.FAQ{}
	for _, f := range m.faqs {
		if f.TenantID == tenantID {
			faqs = append(faqs, f)
		}
	}
	sort.Slice(faqs, func(i, j int) bool {
		if faqs[i].Popular != faqs[j].Popular {
			return faqs[i].Popular
		}
		return faqs[i].Question < faqs[j].Question
	})
	return faqs, nil
}

func (m *Memory) CountFAQs(ctx context.Context, tenantID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, f := range m.faqs {
		if f.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) InsertUsageEvent(ctx context.Context, ev *domain.UsageEvent) (*domain.UsageEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEventID++
	out := *ev
	out.ID = m.nextEventID
	m.events = append(m.events, out)
	return &out, nil
}

func (m *Memory) CountEventsByType(ctx context.Context, tenantID int64, eventType string, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, ev := range m.events {
		if ev.TenantID == tenantID && ev.Source == domain.EventSourceCustomer &&
			ev.Type == eventType && !ev.Timestamp.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountTotalEvents(ctx context.Context, tenantID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, ev := range m.events {
		if ev.TenantID == tenantID && ev.Source == domain.EventSourceCustomer {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountDistinctUsers(ctx context.Context, tenantID int64, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := map[string]struct{}{}
	for _, ev := range m.events {
		if ev.TenantID == tenantID && ev.Source == domain.EventSourceCustomer &&
			ev.UserID != "" && !ev.Timestamp.Before(since) {
			users[ev.UserID] = struct{}{}
		}
	}
	return int64(len(users)), nil
}

func (m *Memory) DailyEventCounts(ctx context.Context, tenantID int64, types []string, since time.Time) ([]domain.DailyCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := map[string]bool{}
	for _, t := range types {
		wanted[t] = true
	}

	byDay := map[string]map[string]int64{}
	for _, ev := range m.events {
		if ev.TenantID != tenantID || ev.Source != domain.EventSourceCustomer ||
			!wanted[ev.Type] || ev.Timestamp.Before(since) {
			continue
		}
		day := ev.Timestamp.UTC().Format("2006-01-02")
		if byDay[day] == nil {
			byDay[day] = map[string]int64{}
		}
		byDay[day][ev.Type]++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]domain.DailyCount, 0, len(days))
	for _, day := range days {
		series = append(series, domain.DailyCount{Day: day, ByType: byDay[day]})
	}
	return series, nil
}

func (m *Memory) ListEvents(ctx context.Context, tenantID int64, limit int) ([]domain.UsageEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := []domain.UsageEvent{}
	for _, ev := range m.events {
		if ev.TenantID == tenantID && ev.Source == domain.EventSourceCustomer {
			events = append(events, ev)
		}
	}
	// Ascending order; a positive limit keeps only the most recent entries.
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].ID < events[j].ID
	})
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}

func (m *Memory) InsertAuditEntry(ctx context.Context, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextAuditID++
	e := *entry
	e.ID = m.nextAuditID
	m.audits = append(m.audits, e)
	return nil
}

func (m *Memory) ListAuditEntries(ctx context.Context, tenantID int64, limit int) ([]domain.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := []domain.AuditEntry{}
	for _, e := range m.audits {
		if e.TenantID != nil && *e.TenantID == tenantID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].ID > entries[j].ID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *Memory) CreateSession(ctx context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.TokenHash] = *s
	return nil
}

func (m *Memory) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	const op = "Memory.GetSessionByTokenHash"

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[tokenHash]
	if !ok {
		return nil, domain.NotFound(op, "session")
	}
	out := s
	return &out, nil
}

func (m *Memory) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, tokenHash)
	return nil
}

func (m *Memory) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var n int64
	for hash, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, hash)
			n++
		}
	}
	return n, nil
}
