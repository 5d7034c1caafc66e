package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
	"github.com/Chxpz/futmatrix-whop-agents/internal/infra/tracer"
)

// Router dispatches a user message to an agent: it validates the target,
// composes the prompt from personality, business rules and conversation
// history, calls the provider, and persists the exchange only on success.
type Router struct {
	agents        *AgentRegistry
	personalities domain.PersonalityRegistry
	rules         domain.BusinessRuleRegistry
	store         domain.ConversationStore
	provider      domain.LLMProvider
	composer      *Composer
	locker        *ConversationLocker
	logger        *slog.Logger

	providerTimeout time.Duration
	maxRetries      int

	ready atomic.Bool
}

// RouterDeps collects the Router's collaborators.
type RouterDeps struct {
	Agents        *AgentRegistry
	Personalities domain.PersonalityRegistry
	Rules         domain.BusinessRuleRegistry
	Store         domain.ConversationStore
	Provider      domain.LLMProvider
	Composer      *Composer
	Logger        *slog.Logger

	ProviderTimeout time.Duration
	MaxRetries      int
}

// NewRouter creates a Router. It starts not-ready; call MarkReady once the
// surrounding system is fully wired.
func NewRouter(deps RouterDeps) *Router {
	if deps.ProviderTimeout <= 0 {
		deps.ProviderTimeout = 30 * time.Second
	}
	if deps.MaxRetries < 0 {
		deps.MaxRetries = 0
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Router{
		agents:          deps.Agents,
		personalities:   deps.Personalities,
		rules:           deps.Rules,
		store:           deps.Store,
		provider:        deps.Provider,
		composer:        deps.Composer,
		locker:          NewConversationLocker(),
		logger:          deps.Logger,
		providerTimeout: deps.ProviderTimeout,
		maxRetries:      deps.MaxRetries,
	}
}

// MarkReady flips the router into serving state.
func (r *Router) MarkReady() { r.ready.Store(true) }

// Ready reports whether the router accepts chat requests.
func (r *Router) Ready() bool { return r.ready.Load() }

// Agents exposes the agent registry for read-only listing.
func (r *Router) Agents() *AgentRegistry { return r.agents }

// History returns up to limit recent turns for the conversation, oldest
// first. limit <= 0 means the full retained window.
func (r *Router) History(ctx context.Context, agentID, userID string, limit int) ([]domain.Turn, error) {
	if _, err := r.agents.Get(agentID); err != nil {
		return nil, err
	}
	return r.store.Recent(ctx, domain.ConversationKey{AgentID: agentID, UserID: userID}, limit)
}

// ClearHistory drops the conversation between agentID and userID.
func (r *Router) ClearHistory(ctx context.Context, agentID, userID string) error {
	if _, err := r.agents.Get(agentID); err != nil {
		return err
	}
	key := domain.ConversationKey{AgentID: agentID, UserID: userID}
	unlock, err := r.locker.Lock(ctx, key.String())
	if err != nil {
		return err
	}
	defer unlock()
	return r.store.Clear(ctx, key)
}

// Chat processes one user message end-to-end. It is safe to call
// concurrently; requests for the same (agent, user) pair are serialized.
func (r *Router) Chat(ctx context.Context, agentID, userID, message string, extra map[string]any) (domain.ChatResult, error) {
	const op = "Router.Chat"

	if !r.ready.Load() {
		return domain.ChatResult{}, domain.NewDomainError(op, domain.ErrNotReady,
			"system is still initializing")
	}

	requestID := ulid.Make().String()
	ctx = domain.ContextWithRequestID(ctx, requestID)

	ctx, span := tracer.StartSpan(ctx, "router.chat",
		trace.WithAttributes(
			tracer.StringAttr("agent.id", agentID),
			tracer.StringAttr("request.id", requestID),
		),
	)
	defer span.End()

	// 1. Resolve and check the agent.
	def, err := r.agents.Get(agentID)
	if err != nil {
		tracer.RecordError(span, err)
		return domain.ChatResult{}, err
	}
	// A disabled agent is not routable; callers see the same not-found
	// error as for an unknown id.
	if !def.Active() {
		err := domain.NewSubSystemError("agent", op, domain.ErrNotFound,
			"agent "+agentID+" is not active")
		tracer.RecordError(span, err)
		return domain.ChatResult{}, err
	}
	if userID == "" {
		err := domain.NewDomainError(op, domain.ErrInvalidInput, "user id is empty")
		tracer.RecordError(span, err)
		return domain.ChatResult{}, err
	}

	// 2. Validate the message before taking the conversation lock.
	if err := r.composer.ValidateMessage(message); err != nil {
		tracer.RecordError(span, err)
		return domain.ChatResult{}, err
	}

	// 3. Serialize per conversation so history reads and appends from
	// concurrent requests never interleave.
	key := domain.ConversationKey{AgentID: agentID, UserID: userID}
	unlock, err := r.locker.Lock(ctx, key.String())
	if err != nil {
		tracer.RecordError(span, err)
		return domain.ChatResult{}, domain.WrapOp(op, err)
	}
	defer unlock()

	// 4. Load history and persona material, compose the prompt.
	history, err := r.store.Recent(ctx, key, r.composer.Window())
	if err != nil {
		tracer.RecordError(span, err)
		return domain.ChatResult{}, domain.WrapOp(op, err)
	}
	personality, err := r.personalities.Get(def.PersonalityKey)
	if err != nil {
		tracer.RecordError(span, err)
		return domain.ChatResult{}, domain.WrapOp(op, err)
	}
	rules, err := r.rules.Get(def.DomainKey)
	if err != nil {
		tracer.RecordError(span, err)
		return domain.ChatResult{}, domain.WrapOp(op, err)
	}
	req, err := r.composer.Compose(agentID, personality, rules, history, message, extra)
	if err != nil {
		tracer.RecordError(span, err)
		return domain.ChatResult{}, err
	}

	// 5. Call the provider with a bounded retry.
	resp, err := r.dispatch(ctx, req)
	if err != nil {
		tracer.RecordError(span, err)
		r.logger.Error("provider call failed",
			"agent_id", agentID, "user_id", userID, "request_id", requestID, "error", err)
		return domain.ChatResult{}, domain.WrapOp(op, err)
	}

	now := time.Now().UTC()

	// 6. Persist the exchange, user turn first. A failed user append means
	// nothing is written; a failed agent append surfaces the error so the
	// caller never sees a success built on a half-recorded conversation.
	if err := r.store.Append(ctx, key, domain.Turn{
		Role:      domain.RoleUser,
		Content:   message,
		Timestamp: now,
	}); err != nil {
		tracer.RecordError(span, err)
		return domain.ChatResult{}, domain.WrapOp(op, err)
	}
	if err := r.store.Append(ctx, key, domain.Turn{
		Role:       domain.RoleAgent,
		Content:    resp.Content,
		Timestamp:  now,
		TokensUsed: resp.Usage.TotalTokens,
	}); err != nil {
		tracer.RecordError(span, err)
		r.logger.Error("agent turn append failed after user turn",
			"agent_id", agentID, "user_id", userID, "request_id", requestID, "error", err)
		return domain.ChatResult{}, domain.WrapOp(op, err)
	}

	tracer.SetOK(span)
	r.logger.Info("chat completed",
		"agent_id", agentID,
		"user_id", userID,
		"request_id", requestID,
		"tokens_used", resp.Usage.TotalTokens)

	return domain.ChatResult{
		Success:        true,
		AgentID:        agentID,
		UserID:         userID,
		Response:       resp.Content,
		Personality:    def.PersonalityKey,
		BusinessDomain: def.DomainKey,
		Timestamp:      now,
		TokensUsed:     resp.Usage.TotalTokens,
		RequestID:      requestID,
	}, nil
}

// dispatch calls the provider under the configured timeout, retrying at
// most maxRetries times and only for retryable failures. Auth and other
// client errors fail immediately.
func (r *Router) dispatch(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, r.providerTimeout)
		resp, err := r.provider.Chat(callCtx, req)
		cancel()
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = domain.NewDomainError("provider.chat", domain.ErrProviderTimeout,
				"provider call exceeded "+r.providerTimeout.String())
		}
		lastErr = err
		if !domain.IsRetryableError(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < r.maxRetries {
			r.logger.Warn("retrying provider call",
				"attempt", attempt+1, "error", err)
		}
	}
	return nil, lastErr
}
