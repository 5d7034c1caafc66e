package domain

import "time"

// Role constants for conversation turns and prompt messages.
const (
	RoleSystem = "system"
	RoleUser   = "user"
	RoleAgent  = "assistant"
)

// Turn is one message in a conversation: either the user's prompt or the
// agent's reply. Turns are append-only and ordered by insertion.
type Turn struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	TokensUsed int       `json:"tokens_used,omitempty"`
}

// ConversationKey identifies one conversation: a single user talking to a
// single agent.
type ConversationKey struct {
	AgentID string
	UserID  string
}

// String renders the key in the agent:user form used for lock and log keys.
func (k ConversationKey) String() string {
	return k.AgentID + ":" + k.UserID
}

// Message is a single prompt message sent to an LLM provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the composed prompt dispatched to an LLM provider.
type ChatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Usage tracks token consumption reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the provider's reply to a ChatRequest.
type ChatResponse struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	Content   string    `json:"content"`
	Usage     Usage     `json:"usage"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatResult is the envelope returned to callers on a successful chat turn.
// Field names match the wire format existing consumers depend on.
type ChatResult struct {
	Success        bool      `json:"success"`
	AgentID        string    `json:"agent_id"`
	UserID         string    `json:"user_id"`
	Response       string    `json:"response"`
	Personality    string    `json:"personality"`
	BusinessDomain string    `json:"business_domain"`
	Timestamp      time.Time `json:"timestamp"`
	TokensUsed     int       `json:"tokens_used"`
	RequestID      string    `json:"request_id,omitempty"`
}
