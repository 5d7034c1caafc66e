package persona

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
)

func TestPersonalitiesGet(t *testing.T) {
	reg := NewPersonalities()

	p, err := reg.Get(PersonalityAnalytical)
	require.NoError(t, err)
	assert.Equal(t, "professional", p.Tone)
	assert.NotEmpty(t, p.Traits)
	assert.NotEmpty(t, p.PromptFragment)
	assert.InDelta(t, 0.3, p.Temperature, 0.001)

	creative, err := reg.Get(PersonalityCreative)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, creative.Temperature, 0.001)
}

func TestPersonalitiesGetUnknown(t *testing.T) {
	reg := NewPersonalities()

	_, err := reg.Get("stoic")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, domain.CodePersonalityNotFound, domain.ErrorCodeOf(err))
}

func TestPersonalitiesKeys(t *testing.T) {
	keys := NewPersonalities().Keys()
	assert.Equal(t, []string{
		PersonalityAnalytical,
		PersonalityCreative,
		PersonalityHelpful,
		PersonalityProfessional,
	}, keys)
}

func TestBusinessRulesGet(t *testing.T) {
	reg := NewBusinessRules()

	rs, err := reg.Get(DomainFinancialAdvisor)
	require.NoError(t, err)
	assert.Equal(t, "Financial advisory specialist", rs.DomainDescription)
	assert.NotEmpty(t, rs.Specializations)
	assert.NotEmpty(t, rs.Constraints, "financial advisor carries compliance constraints")

	general, err := reg.Get(DomainGeneralAssistant)
	require.NoError(t, err)
	assert.Empty(t, general.Constraints)
}

func TestBusinessRulesGetUnknown(t *testing.T) {
	_, err := NewBusinessRules().Get("astrology")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, domain.CodeDomainNotFound, domain.ErrorCodeOf(err))
}

func TestToneDirective(t *testing.T) {
	assert.Equal(t, "Respond in a professional, evidence-based manner.", ToneDirective("professional"))
	assert.Equal(t, "Respond in an enthusiastic, exploratory manner.", ToneDirective("enthusiastic"))
	// Unknown tones fall back instead of failing composition.
	assert.Equal(t, "Respond in a clear and helpful manner.", ToneDirective("sarcastic"))
}

func TestEveryPersonalityToneHasDirective(t *testing.T) {
	fallback := ToneDirective("__nope__")
	for _, p := range builtinPersonalities() {
		assert.NotEqual(t, fallback, ToneDirective(p.Tone),
			"personality %s tone %s should have a dedicated directive", p.Key, p.Tone)
	}
}
