package usecase

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
	"github.com/Chxpz/futmatrix-whop-agents/internal/persona"
)

// defaultTemperature is used when the personality does not bias sampling.
const defaultTemperature = 0.7

// Composer builds the provider request for one conversation turn: a system
// instruction block derived from personality and business rules, followed by
// the windowed history and the new user message.
type Composer struct {
	model         string
	maxTokens     int
	maxMessageLen int
	window        int
}

// NewComposer creates a composer. window caps how many history turns are
// included in a prompt; maxMessageLen bounds the user message in characters.
func NewComposer(model string, maxTokens, maxMessageLen, window int) *Composer {
	if maxMessageLen <= 0 {
		maxMessageLen = 4000
	}
	if window <= 0 {
		window = 10
	}
	return &Composer{
		model:         model,
		maxTokens:     maxTokens,
		maxMessageLen: maxMessageLen,
		window:        window,
	}
}

// Window returns the history window size.
func (c *Composer) Window() int { return c.window }

// ValidateMessage checks the user message against the composer's bounds.
func (c *Composer) ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return domain.NewDomainError("Composer.ValidateMessage",
			domain.ErrInvalidInput, "message cannot be empty")
	}
	if n := utf8.RuneCountInString(message); n > c.maxMessageLen {
		return domain.NewDomainError("Composer.ValidateMessage",
			domain.ErrInvalidInput,
			fmt.Sprintf("message length %d exceeds maximum %d", n, c.maxMessageLen))
	}
	return nil
}

// Compose assembles the provider request. The system block is never
// truncated; only history is subject to the window limit.
func (c *Composer) Compose(
	agentID string,
	p domain.Personality,
	rules domain.BusinessRuleSet,
	history []domain.Turn,
	userMessage string,
	extra map[string]any,
) (domain.ChatRequest, error) {
	if err := c.ValidateMessage(userMessage); err != nil {
		return domain.ChatRequest{}, err
	}

	if len(history) > c.window {
		history = history[len(history)-c.window:]
	}

	messages := make([]domain.Message, 0, len(history)+3)
	messages = append(messages, domain.Message{
		Role:    domain.RoleSystem,
		Content: c.systemBlock(agentID, p, rules),
	})

	// Optional caller-supplied context rides as a trailing system message,
	// after the instructions but before the conversation.
	if len(extra) > 0 {
		if data, err := json.MarshalIndent(extra, "", "  "); err == nil {
			messages = append(messages, domain.Message{
				Role:    domain.RoleSystem,
				Content: "Additional context:\n" + string(data),
			})
		}
	}

	for _, turn := range history {
		role := domain.RoleUser
		if turn.Role == domain.RoleAgent {
			role = domain.RoleAgent
		}
		messages = append(messages, domain.Message{Role: role, Content: turn.Content})
	}

	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: userMessage})

	temperature := p.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	return domain.ChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: temperature,
	}, nil
}

// systemBlock concatenates, in fixed order: the role preamble with traits
// and tone, the business rule description and specializations, and the tone
// directive, closing with the shared response guidelines.
func (c *Composer) systemBlock(agentID string, p domain.Personality, rules domain.BusinessRuleSet) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s, an AI assistant with the %s personality.\n\n", agentID, p.Key)

	sb.WriteString("CORE TRAITS:\n")
	for _, trait := range p.Traits {
		fmt.Fprintf(&sb, "- %s\n", trait)
	}
	fmt.Fprintf(&sb, "Tone: %s\n", p.Tone)
	if p.PromptFragment != "" {
		sb.WriteString("\n" + p.PromptFragment + "\n")
	}

	fmt.Fprintf(&sb, "\nBUSINESS DOMAIN: %s\n", rules.DomainDescription)
	if len(rules.Specializations) > 0 {
		sb.WriteString("Areas of expertise:\n")
		for _, s := range rules.Specializations {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}
	if rules.PromptFragment != "" {
		sb.WriteString("\n" + rules.PromptFragment + "\n")
	}
	for _, constraint := range rules.Constraints {
		fmt.Fprintf(&sb, "- %s\n", constraint)
	}

	sb.WriteString("\n" + persona.ToneDirective(p.Tone) + "\n")

	sb.WriteString(`
RESPONSE GUIDELINES:
1. Always stay in character with your personality type.
2. Apply your business domain expertise to all responses.
3. Ask clarifying questions when needed.
4. Provide actionable advice when appropriate.
5. Remember conversation context and refer to previous interactions.
`)

	return sb.String()
}
