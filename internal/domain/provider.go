package domain

import "context"

// LLMProvider is the interface for any completion backend.
type LLMProvider interface {
	// Chat sends a composed request and returns the complete response.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	// Name returns the provider's identifier (e.g. "openai").
	Name() string
}

// ConversationStore persists conversation turns. The in-process memory store
// and the SQLite store both satisfy this contract; the router does not care
// which is wired in.
type ConversationStore interface {
	// Append adds one turn to the conversation, evicting the oldest turns
	// when the retention bound is exceeded.
	Append(ctx context.Context, key ConversationKey, turn Turn) error
	// Recent returns up to limit of the most recent turns, oldest first.
	// It never mutates the store.
	Recent(ctx context.Context, key ConversationKey, limit int) ([]Turn, error)
	// Clear removes the conversation entirely.
	Clear(ctx context.Context, key ConversationKey) error
}
