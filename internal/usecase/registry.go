package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
)

// AgentRegistry holds the routable agents. It is immutable after
// construction; every agent's personality and business domain keys are
// checked against the registries up front so routing never discovers a
// dangling reference at request time.
type AgentRegistry struct {
	agents map[string]domain.AgentDefinition
	ids    []string

	// notifications holds each agent's personality notification text,
	// resolved once at construction for the status listing.
	notifications map[string]string
}

// NewAgentRegistry validates and indexes the given agent definitions.
func NewAgentRegistry(
	defs []domain.AgentDefinition,
	personalities domain.PersonalityRegistry,
	rules domain.BusinessRuleRegistry,
) (*AgentRegistry, error) {
	const op = "NewAgentRegistry"

	agents := make(map[string]domain.AgentDefinition, len(defs))
	ids := make([]string, 0, len(defs))
	notifications := make(map[string]string, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return nil, domain.NewDomainError(op, domain.ErrInvalidInput, "agent id is empty")
		}
		if _, exists := agents[def.ID]; exists {
			return nil, domain.NewDomainError(op, domain.ErrInvalidInput,
				fmt.Sprintf("duplicate agent id %q", def.ID))
		}
		p, err := personalities.Get(def.PersonalityKey)
		if err != nil {
			return nil, domain.WrapOp(op, err)
		}
		if _, err := rules.Get(def.DomainKey); err != nil {
			return nil, domain.WrapOp(op, err)
		}
		agents[def.ID] = def
		ids = append(ids, def.ID)
		notifications[def.ID] = p.Notification
	}
	sort.Strings(ids)

	return &AgentRegistry{agents: agents, ids: ids, notifications: notifications}, nil
}

// Get returns the agent definition for id. Unknown ids carry the sorted
// list of valid ids in the error detail.
func (r *AgentRegistry) Get(id string) (domain.AgentDefinition, error) {
	def, ok := r.agents[id]
	if !ok {
		return domain.AgentDefinition{}, domain.NewSubSystemError("agent",
			"AgentRegistry.Get", domain.ErrNotFound,
			fmt.Sprintf("agent %q not found, valid agents: %s", id, strings.Join(r.ids, ", ")))
	}
	return def, nil
}

// IDs returns all agent ids in sorted order.
func (r *AgentRegistry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// List returns the status view of every agent, sorted by id.
func (r *AgentRegistry) List() []domain.AgentStatus {
	out := make([]domain.AgentStatus, 0, len(r.ids))
	for _, id := range r.ids {
		def := r.agents[id]
		state := def.State
		if state == "" {
			state = domain.AgentActive
		}
		out = append(out, domain.AgentStatus{
			ID:             def.ID,
			Personality:    def.PersonalityKey,
			BusinessDomain: def.DomainKey,
			State:          state,
			Notification:   r.notifications[def.ID],
		})
	}
	return out
}
