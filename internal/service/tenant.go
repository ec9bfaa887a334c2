package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/repository"
)

// TenantService manages tenant accounts and their sessions.
type TenantService struct {
	store           repository.Store
	logger          *slog.Logger
	sessionDuration time.Duration
}

// NewTenantService creates a tenant service
func NewTenantService(store repository.Store, logger *slog.Logger, sessionDuration time.Duration) *TenantService {
	return &TenantService{
		store:           store,
		logger:          logger,
		sessionDuration: sessionDuration,
	}
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Ensure returns the tenant for a verified identity, creating the account on
// first login. Creation is idempotent: losing a create race to a concurrent
// login falls back to the existing row.
func (s *TenantService) Ensure(ctx context.Context, id domain.Identity) (*domain.Tenant, error) {
	const op = "TenantService.Ensure"

	email := NormalizeEmail(id.Email)
	if email == "" {
		return nil, domain.Invalid(op, "email is required")
	}

	tenant, err := s.store.GetTenantByEmail(ctx, email)
	if err == nil {
		return tenant, nil
	}
	if domain.ErrorCode(err) != domain.ENOTFOUND {
		return nil, err
	}

	picture := id.Picture
	if picture == "" {
		picture = domain.DefaultProfilePicture
	}

	tenant, err = s.store.CreateTenant(ctx, &domain.Tenant{
		Email:           email,
		Name:            id.Name,
		Plan:            domain.DefaultPlan,
		Status:          domain.TenantStatusActive,
		ProfilePicture:  picture,
		IntegrationCode: domain.DefaultIntegrationCode,
	})
	if err != nil {
		if domain.ErrorCode(err) == domain.ECONFLICT {
			return s.store.GetTenantByEmail(ctx, email)
		}
		return nil, err
	}

	s.logger.Info("tenant created", "tenant_id", tenant.ID, "email", tenant.Email)
	s.audit(ctx, &tenant.ID, "tenant_created", tenant.Email)
	return tenant, nil
}

// GetByID returns a tenant by id
func (s *TenantService) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	return s.store.GetTenantByID(ctx, id)
}

// GetByEmail returns a tenant by normalized email
func (s *TenantService) GetByEmail(ctx context.Context, email string) (*domain.Tenant, error) {
	return s.store.GetTenantByEmail(ctx, NormalizeEmail(email))
}

// UpdateProfile updates the tenant's editable profile fields.
func (s *TenantService) UpdateProfile(ctx context.Context, params domain.ProfileUpdateParams) (*domain.Tenant, error) {
	const op = "TenantService.UpdateProfile"

	params.Email = NormalizeEmail(params.Email)
	if params.Email == "" {
		return nil, domain.Invalid(op, "email is required")
	}
	if !strings.Contains(params.Email, "@") {
		return nil, domain.Invalid(op, "email is not valid")
	}
	params.Name = strings.TrimSpace(params.Name)
	params.Company = strings.TrimSpace(params.Company)
	params.Role = strings.TrimSpace(params.Role)

	tenant, err := s.store.UpdateTenantProfile(ctx, params)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &tenant.ID, "profile_updated", tenant.Email)
	return tenant, nil
}

// WelcomeMessage returns the tenant's welcome message, falling back to the
// default when none has been set.
func (s *TenantService) WelcomeMessage(ctx context.Context, tenantID int64) (string, error) {
	msg, err := s.store.GetWelcomeMessage(ctx, tenantID)
	if domain.ErrorCode(err) == domain.ENOTFOUND {
		return domain.DefaultWelcomeMessage, nil
	}
	if err != nil {
		return "", err
	}
	return msg, nil
}

// SetWelcomeMessage stores a custom welcome message for the tenant.
func (s *TenantService) SetWelcomeMessage(ctx context.Context, tenantID int64, message, performedBy string) error {
	const op = "TenantService.SetWelcomeMessage"

	message = strings.TrimSpace(message)
	if message == "" {
		return domain.Invalid(op, "welcome message cannot be empty")
	}

	if err := s.store.SetWelcomeMessage(ctx, tenantID, message); err != nil {
		return err
	}
	s.audit(ctx, &tenantID, "welcome_message_updated", performedBy)
	return nil
}

// IntegrationCode returns the tenant's widget embed snippet.
func (s *TenantService) IntegrationCode(ctx context.Context, tenantID int64) (string, error) {
	tenant, err := s.store.GetTenantByID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if tenant.IntegrationCode == "" {
		return domain.DefaultIntegrationCode, nil
	}
	return tenant.IntegrationCode, nil
}

// SetIntegrationCode stores a custom widget embed snippet.
func (s *TenantService) SetIntegrationCode(ctx context.Context, tenantID int64, code, performedBy string) error {
	const op = "TenantService.SetIntegrationCode"

	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Invalid(op, "integration code cannot be empty")
	}

	if err := s.store.SetIntegrationCode(ctx, tenantID, code); err != nil {
		return err
	}
	s.audit(ctx, &tenantID, "integration_updated", performedBy)
	return nil
}

// StartSession creates a session for the tenant and returns the raw token.
// Only the SHA-256 hash of the token is persisted.
func (s *TenantService) StartSession(ctx context.Context, tenantID int64) (string, *domain.Session, error) {
	const op = "TenantService.StartSession"

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, domain.Internal(err, op, "failed to generate session token")
	}
	token := hex.EncodeToString(raw)

	session := &domain.Session{
		ID:        uuid.New(),
		TenantID:  tenantID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(s.sessionDuration),
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// GetBySessionToken resolves a raw session token to its tenant.
// Expired sessions are deleted on sight and treated as unauthorized.
func (s *TenantService) GetBySessionToken(ctx context.Context, token string) (*domain.Tenant, error) {
	const op = "TenantService.GetBySessionToken"

	hash := hashToken(token)
	session, err := s.store.GetSessionByTokenHash(ctx, hash)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return nil, domain.Unauthorized(op, "invalid session")
		}
		return nil, err
	}
	if session.IsExpired() {
		if err := s.store.DeleteSessionByTokenHash(ctx, hash); err != nil {
			s.logger.Error("failed to delete expired session", "error", err)
		}
		return nil, domain.Unauthorized(op, "session expired")
	}

	return s.store.GetTenantByID(ctx, session.TenantID)
}

// EndSession deletes the session for a raw token. Idempotent.
func (s *TenantService) EndSession(ctx context.Context, token string) error {
	return s.store.DeleteSessionByTokenHash(ctx, hashToken(token))
}

// CleanupExpiredSessions removes expired sessions and returns how many went.
func (s *TenantService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSessions(ctx)
}

// audit records an audit entry, logging failures instead of surfacing them.
func (s *TenantService) audit(ctx context.Context, tenantID *int64, action, performedBy string) {
	err := s.store.InsertAuditEntry(ctx, &domain.AuditEntry{
		TenantID:    tenantID,
		Action:      action,
		PerformedBy: performedBy,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to write audit entry", "action", action, "error", err)
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
