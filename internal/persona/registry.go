// Package persona holds the static personality and business-rule tables.
// Both registries are built once at startup and are read-only afterwards,
// so no lock discipline is needed.
package persona

import (
	"sort"

	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
)

// Personalities is a read-only personality lookup table.
type Personalities struct {
	table map[string]domain.Personality
}

// NewPersonalities builds the registry from the builtin definitions.
func NewPersonalities() *Personalities {
	table := make(map[string]domain.Personality)
	for _, p := range builtinPersonalities() {
		table[p.Key] = p
	}
	return &Personalities{table: table}
}

// Get implements domain.PersonalityRegistry.
func (r *Personalities) Get(key string) (domain.Personality, error) {
	p, ok := r.table[key]
	if !ok {
		return domain.Personality{}, domain.NewSubSystemError(
			"personality", "Personalities.Get", domain.ErrNotFound, key)
	}
	return p, nil
}

// Keys returns all registered personality keys, sorted.
func (r *Personalities) Keys() []string {
	return sortedKeys(r.table)
}

// BusinessRules is a read-only business rule set lookup table.
type BusinessRules struct {
	table map[string]domain.BusinessRuleSet
}

// NewBusinessRules builds the registry from the builtin definitions.
func NewBusinessRules() *BusinessRules {
	table := make(map[string]domain.BusinessRuleSet)
	for _, rs := range builtinRuleSets() {
		table[rs.Key] = rs
	}
	return &BusinessRules{table: table}
}

// Get implements domain.BusinessRuleRegistry.
func (r *BusinessRules) Get(key string) (domain.BusinessRuleSet, error) {
	rs, ok := r.table[key]
	if !ok {
		return domain.BusinessRuleSet{}, domain.NewSubSystemError(
			"domain", "BusinessRules.Get", domain.ErrNotFound, key)
	}
	return rs, nil
}

// Keys returns all registered domain keys, sorted.
func (r *BusinessRules) Keys() []string {
	return sortedKeys(r.table)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Compile-time interface checks.
var (
	_ domain.PersonalityRegistry  = (*Personalities)(nil)
	_ domain.BusinessRuleRegistry = (*BusinessRules)(nil)
)
