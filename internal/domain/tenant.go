// Package domain contains core business types and interfaces.
//
// This file defines the Tenant domain type and session types for
// cookie-based authentication. Tenants are the root aggregate: FAQs,
// welcome messages, integration snippets, and usage events all hang off
// a tenant id and are never navigated through in-memory back-pointers.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents the lifecycle state of a tenant account.
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// DefaultProfilePicture is served when the identity provider returns no picture.
const DefaultProfilePicture = "/static/default_avatar.png"

// DefaultWelcomeMessage is returned when a tenant has not customized theirs.
const DefaultWelcomeMessage = "Hello! How can I assist you today?"

// DefaultIntegrationCode is the embed snippet handed to new tenants.
const DefaultIntegrationCode = "<script src='/static/script.js'></script>"

// Tenant represents a registered client of the FAQ/chat service.
//
// A tenant is created implicitly on first successful external login and
// is never hard-deleted; cascading cleanup is left to the store.
type Tenant struct {
	ID              int64
	Email           string // unique, stored lowercase
	Name            string
	Company         string
	Role            string
	Plan            Plan
	Status          TenantStatus
	ProfilePicture  string
	IntegrationCode string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayName returns the tenant's name, falling back to the email local part.
func (t *Tenant) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if at := strings.IndexByte(t.Email, '@'); at > 0 {
		return t.Email[:at]
	}
	return t.Email
}

// IsActive reports whether the tenant may use the service.
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Identity is the triple an external identity provider yields on login.
// Anything else coming back from the provider is treated as a failed login.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// Session represents an authenticated tenant session.
//
// Sessions are stored with a hashed token; the raw token is handed to the
// client exactly once, inside the session cookie.
type Session struct {
	ID        uuid.UUID
	TenantID  int64
	TokenHash string // SHA-256 hash of the session token
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ProfileUpdateParams contains parameters for updating a tenant profile.
type ProfileUpdateParams struct {
	TenantID int64
	Name     string
	Email    string
	Company  string
	Role     string
}
