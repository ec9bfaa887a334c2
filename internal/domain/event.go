// Package domain contains core business types and interfaces.
//
// This file defines the usage ledger types. Usage events are append-only:
// they are never mutated or deleted, and every aggregate (counts, active
// users, daily series) is derived by scanning this sequence.
package domain

import (
	"encoding/json"
	"time"
)

// EventSource distinguishes customer traffic from internal/admin activity.
// Only customer-sourced events reach the usage ledger; everything else is
// recorded in the audit trail.
type EventSource string

const (
	EventSourceCustomer EventSource = "customer"
	EventSourceAdmin    EventSource = "admin"
)

// Recognized event kinds. The type field is a free-form tag; these are the
// kinds the dashboard and quota accounting know about.
const (
	EventFAQClick  = "faq_click"
	EventAIRequest = "ai_request"
	EventNewLead   = "new_lead"
	EventChatFAQ   = "chatbot_faq"
	EventChatAI    = "chatbot_ai"
	EventChatError = "chatbot_error"
)

// ChatEventType returns the ledger event kind for a chat resolution source
// ("faq", "ai" or "error").
func ChatEventType(source string) string {
	return "chatbot_" + source
}

// Payload is the structured payload attached to a usage event.
//
// It is serialized as a JSON object with lexicographically ordered keys,
// so a payload round-trips byte-for-byte through the store. Payload
// contents are opaque to the ledger; no schema validation is applied.
type Payload map[string]string

// Encode serializes the payload for storage. A nil payload encodes as "{}".
func (p Payload) Encode() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// DecodePayload parses a stored payload. Empty input yields an empty payload.
func DecodePayload(data []byte) (Payload, error) {
	if len(data) == 0 {
		return Payload{}, nil
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// UsageEvent is one immutable interaction record.
type UsageEvent struct {
	ID        int64
	TenantID  int64
	UserID    string // optional end-user identifier (email or anonymous id)
	Type      string
	Payload   Payload
	Source    EventSource
	Timestamp time.Time
}

// AppendParams contains the parameters for appending a usage event.
type AppendParams struct {
	TenantID  int64
	UserID    string
	Type      string
	Payload   Payload
	Source    EventSource // defaults to customer when empty
	Timestamp time.Time   // defaults to now (UTC) when zero
}

// DailyCount is one day of the analytics time series. Days with no
// matching events are omitted from the series entirely, not zero-filled.
type DailyCount struct {
	Day    string // calendar date, "2006-01-02"
	ByType map[string]int64
}

// AuditEntry records an administrative or state-changing action for
// traceability. Audit entries never feed analytics math.
type AuditEntry struct {
	ID          int64
	TenantID    *int64 // nil for system-level actions
	Action      string
	PerformedBy string
	Timestamp   time.Time
}
