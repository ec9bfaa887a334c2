package ai

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Handle is a per-tenant model handle.
//
// All handles currently share one underlying provider; the handle exists
// so per-tenant models (fine-tuned weights, per-tenant prompts) can be
// introduced without changing the chat pipeline.
type Handle struct {
	TenantID  int64
	CreatedAt time.Time

	provider Provider
}

// Predict runs the tenant's model on a message.
func (h *Handle) Predict(ctx context.Context, message string) (string, error) {
	return h.provider.Predict(ctx, message)
}

// Registry hands out per-tenant model handles.
//
// The registry is created once at service start. A handle is created on
// first use for a tenant and kept for the life of the process; entries
// are never evicted. Creation-on-miss is the documented contract, not a
// hidden caching detail.
type Registry struct {
	provider Provider
	logger   *slog.Logger

	mu      sync.Mutex
	handles map[int64]*Handle
}

// NewRegistry creates an empty registry backed by the given provider.
func NewRegistry(provider Provider, logger *slog.Logger) *Registry {
	return &Registry{
		provider: provider,
		logger:   logger,
		handles:  make(map[int64]*Handle),
	}
}

// GetOrCreate returns the model handle for a tenant, creating it on first use.
func (r *Registry) GetOrCreate(tenantID int64) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[tenantID]; ok {
		return h
	}

	h := &Handle{
		TenantID:  tenantID,
		CreatedAt: time.Now().UTC(),
		provider:  r.provider,
	}
	r.handles[tenantID] = h
	r.logger.Info("model handle created", "tenant_id", tenantID)
	return h
}

// Len returns the number of live handles. Exposed for metrics.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
