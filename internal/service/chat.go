package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aethermind-ai-hash/asb/internal/ai"
	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/match"
	"github.com/aethermind-ai-hash/asb/internal/metrics"
)

// Chat resolution sources.
const (
	SourceFAQ    = "faq"
	SourceAI     = "ai"
	SourceError  = "error"
	SourcePrompt = "prompt" // blank message, nothing recorded
)

// PromptReply is returned for blank messages. It produces no ledger event.
const PromptReply = "Please type a message."

// Reply is the outcome of one chat message.
type Reply struct {
	Text   string
	Source string
}

// ChatService runs the chat pipeline: FAQ match first, AI fallback second,
// with every failure downgraded to an error-sourced reply. A chat request
// never fails outright once the caller is authenticated; the only errors
// surfaced are ledger write failures.
type ChatService struct {
	faqs      *FAQService
	ledger    *LedgerService
	registry  *ai.Registry
	aiTimeout time.Duration
	logger    *slog.Logger
}

// NewChatService creates a chat service
func NewChatService(faqs *FAQService, ledger *LedgerService, registry *ai.Registry, aiTimeout time.Duration, logger *slog.Logger) *ChatService {
	return &ChatService{
		faqs:      faqs,
		ledger:    ledger,
		registry:  registry,
		aiTimeout: aiTimeout,
		logger:    logger,
	}
}

// Respond answers one visitor message on behalf of a tenant.
//
// Exactly one ledger event is appended per non-blank message, typed by the
// resolution source. userID identifies the end user for the active-user
// count; it may be empty for anonymous visitors.
func (s *ChatService) Respond(ctx context.Context, tenant *domain.Tenant, userID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		metrics.ChatRepliesTotal.WithLabelValues(SourcePrompt).Inc()
		return &Reply{Text: PromptReply, Source: SourcePrompt}, nil
	}

	reply, payload := s.resolve(ctx, tenant, message)

	_, err := s.ledger.Append(ctx, domain.AppendParams{
		TenantID: tenant.ID,
		UserID:   userID,
		Type:     domain.ChatEventType(reply.Source),
		Payload:  payload,
	})
	if err != nil {
		return nil, err
	}

	metrics.ChatRepliesTotal.WithLabelValues(reply.Source).Inc()
	return reply, nil
}

// resolve produces the reply text and ledger payload for a non-blank message.
func (s *ChatService) resolve(ctx context.Context, tenant *domain.Tenant, message string) (*Reply, domain.Payload) {
	faqs, err := s.faqs.List(ctx, tenant.ID)
	if err != nil {
		// Treat a broken FAQ lookup like any other pipeline failure.
		s.logger.Error("faq lookup failed", "tenant_id", tenant.ID, "error", err)
		return &Reply{
			Text:   fmt.Sprintf("Error processing message: %v", err),
			Source: SourceError,
		}, domain.Payload{"message": message}
	}

	questions := make([]string, len(faqs))
	answers := make(map[string]string, len(faqs))
	for i, f := range faqs {
		questions[i] = f.Question
		answers[f.Question] = f.Answer
	}

	if m, ok := match.Best(message, questions); ok {
		metrics.FAQMatchScore.Observe(float64(m.Score))
		return &Reply{Text: answers[m.Question], Source: SourceFAQ}, domain.Payload{
			"message":          message,
			"matched_question": m.Question,
		}
	}

	text, err := s.predict(ctx, tenant.ID, message)
	if err != nil {
		s.logger.Warn("ai fallback failed", "tenant_id", tenant.ID, "error", err)
		return &Reply{
			Text:   fmt.Sprintf("Error processing message: %v", err),
			Source: SourceError,
		}, domain.Payload{"message": message}
	}

	return &Reply{Text: text, Source: SourceAI}, domain.Payload{"message": message}
}

// predict calls the tenant's model under the configured timeout.
func (s *ChatService) predict(ctx context.Context, tenantID int64, message string) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	start := time.Now()
	text, err := s.registry.GetOrCreate(tenantID).Predict(tctx, message)
	metrics.AIRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.AIRequestsTotal.WithLabelValues("ok").Inc()
	return text, nil
}
