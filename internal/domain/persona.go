package domain

// Personality is a reusable bundle of tone and trait labels shaping response
// style. Personalities are loaded once at startup and never modified.
type Personality struct {
	Key            string   `json:"key"`
	Traits         []string `json:"traits"`
	Tone           string   `json:"tone"`
	PromptFragment string   `json:"prompt_fragment"`
	// Notification is the personality-voiced "working on it" text shown to
	// callers while a response is being generated.
	Notification string `json:"notification,omitempty"`
	// Temperature biases the provider's sampling for this personality.
	// Zero means use the provider default.
	Temperature float64 `json:"temperature,omitempty"`
}

// BusinessRuleSet is a reusable bundle of domain constraints and
// specializations shaping response content.
type BusinessRuleSet struct {
	Key               string   `json:"key"`
	DomainDescription string   `json:"domain_description"`
	Specializations   []string `json:"specializations"`
	PromptFragment    string   `json:"prompt_fragment"`
	// Constraints are hard rules appended to the system instructions,
	// e.g. the financial-advice disclaimer requirement.
	Constraints []string `json:"constraints,omitempty"`
}

// PersonalityRegistry resolves personality keys. Implementations are
// read-only after construction and safe for concurrent use.
type PersonalityRegistry interface {
	Get(key string) (Personality, error)
	Keys() []string
}

// BusinessRuleRegistry resolves business domain keys.
type BusinessRuleRegistry interface {
	Get(key string) (BusinessRuleSet, error)
	Keys() []string
}
