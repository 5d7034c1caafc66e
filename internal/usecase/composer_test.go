package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
	"github.com/Chxpz/futmatrix-whop-agents/internal/persona"
)

func testComposer() *Composer {
	return NewComposer("gpt-4o", 1000, 4000, 10)
}

func analyticalPersonality(t *testing.T) domain.Personality {
	t.Helper()
	p, err := persona.NewPersonalities().Get("analytical")
	if err != nil {
		t.Fatalf("Get(analytical): %v", err)
	}
	return p
}

func financialRules(t *testing.T) domain.BusinessRuleSet {
	t.Helper()
	r, err := persona.NewBusinessRules().Get("financial_advisor")
	if err != nil {
		t.Fatalf("Get(financial_advisor): %v", err)
	}
	return r
}

func TestComposerValidateMessage(t *testing.T) {
	c := testComposer()

	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{"ok", "What should I invest in?", false},
		{"empty", "", true},
		{"whitespace only", "   \n\t", true},
		{"at limit", strings.Repeat("a", 4000), false},
		{"over limit", strings.Repeat("a", 4001), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.ValidateMessage(tt.message)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateMessage(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil && domain.ErrorCodeOf(err) != domain.CodeInvalidInput {
				t.Errorf("error code = %s, want %s", domain.ErrorCodeOf(err), domain.CodeInvalidInput)
			}
		})
	}
}

func TestComposerSystemBlock(t *testing.T) {
	c := testComposer()

	req, err := c.Compose("agent_alpha", analyticalPersonality(t), financialRules(t), nil, "Should I buy bonds?", nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if len(req.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2 (system + user)", len(req.Messages))
	}
	sys := req.Messages[0]
	if sys.Role != domain.RoleSystem {
		t.Fatalf("first message role = %q, want system", sys.Role)
	}

	for _, want := range []string{
		"agent_alpha",
		"analytical",
		"CORE TRAITS:",
		"BUSINESS DOMAIN:",
		"RESPONSE GUIDELINES:",
		"professional, evidence-based",
	} {
		if !strings.Contains(sys.Content, want) {
			t.Errorf("system block missing %q", want)
		}
	}

	last := req.Messages[len(req.Messages)-1]
	if last.Role != domain.RoleUser || last.Content != "Should I buy bonds?" {
		t.Errorf("last message = %+v, want the user message", last)
	}
}

func TestComposerWindowsHistory(t *testing.T) {
	c := NewComposer("gpt-4o", 1000, 4000, 4)

	history := make([]domain.Turn, 0, 10)
	for i := 0; i < 10; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAgent
		}
		history = append(history, domain.Turn{
			Role:      role,
			Content:   strings.Repeat("x", i+1),
			Timestamp: time.Now(),
		})
	}

	req, err := c.Compose("agent_alpha", analyticalPersonality(t), financialRules(t), history, "next", nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	// system + 4 windowed turns + user message
	if len(req.Messages) != 6 {
		t.Fatalf("len(Messages) = %d, want 6", len(req.Messages))
	}
	// The window keeps the newest turns: lengths 7..10.
	if got := req.Messages[1].Content; got != strings.Repeat("x", 7) {
		t.Errorf("first windowed turn has len %d, want 7", len(got))
	}
	if req.Messages[2].Role != domain.RoleAgent {
		t.Errorf("windowed agent turn role = %q, want %q", req.Messages[2].Role, domain.RoleAgent)
	}
}

func TestComposerTemperature(t *testing.T) {
	c := testComposer()
	rules := financialRules(t)

	// analytical biases low.
	req, err := c.Compose("agent_alpha", analyticalPersonality(t), rules, nil, "hi", nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if req.Temperature != 0.3 {
		t.Errorf("analytical temperature = %v, want 0.3", req.Temperature)
	}
	if req.Model != "gpt-4o" || req.MaxTokens != 1000 {
		t.Errorf("request carries model=%q maxTokens=%d", req.Model, req.MaxTokens)
	}

	// A personality without a bias falls back to the default.
	neutral := domain.Personality{Key: "neutral", Tone: "warm"}
	req, err = c.Compose("agent_alpha", neutral, rules, nil, "hi", nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if req.Temperature != defaultTemperature {
		t.Errorf("default temperature = %v, want %v", req.Temperature, defaultTemperature)
	}
}

func TestComposerExtraContext(t *testing.T) {
	c := testComposer()

	req, err := c.Compose("agent_alpha", analyticalPersonality(t), financialRules(t), nil, "hi",
		map[string]any{"account_tier": "premium"})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	// system + context + user
	if len(req.Messages) != 3 {
		t.Fatalf("len(Messages) = %d, want 3", len(req.Messages))
	}
	ctxMsg := req.Messages[1]
	if ctxMsg.Role != domain.RoleSystem || !strings.Contains(ctxMsg.Content, "account_tier") {
		t.Errorf("context message = %+v, want system message mentioning account_tier", ctxMsg)
	}
}
