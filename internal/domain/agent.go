package domain

// AgentState describes whether an agent accepts chat requests.
type AgentState string

const (
	AgentActive   AgentState = "active"
	AgentDisabled AgentState = "disabled"
)

// AgentDefinition binds an agent ID to its personality and business domain.
// Definitions are created from static configuration at startup and never
// mutated afterwards.
type AgentDefinition struct {
	ID             string     `json:"id"              yaml:"id"`
	PersonalityKey string     `json:"personality"     yaml:"personality"`
	DomainKey      string     `json:"business_domain" yaml:"business_domain"`
	State          AgentState `json:"state"           yaml:"state"`
}

// Active reports whether the agent accepts requests. An empty state is
// treated as active so minimal configs stay valid.
func (d AgentDefinition) Active() bool {
	return d.State == AgentActive || d.State == ""
}

// AgentStatus is a read-only snapshot of a registered agent, as returned
// by the agent listing endpoint. Notification is the personality's
// "working on it" text, so clients can show it while a chat is in flight.
type AgentStatus struct {
	ID             string     `json:"agent_id"`
	Personality    string     `json:"personality"`
	BusinessDomain string     `json:"business_domain"`
	State          AgentState `json:"status"`
	Notification   string     `json:"notification,omitempty"`
}
