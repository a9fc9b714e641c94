package rule

import (
	"fmt"
	"sync"
)

// Registry manages available rules.
// It provides thread-safe registration and lookup of rules and remembers
// registration order, which is the evaluation order among equal priorities.
type Registry struct {
	rules map[string]Rule
	order []string
	mu    sync.RWMutex
}

// NewRegistry creates a new empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// Register adds a rule to the registry.
// Returns an error if a rule with the same ID already exists.
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.ID()]; exists {
		return fmt.Errorf("rule %s already registered", rule.ID())
	}

	r.rules[rule.ID()] = rule
	r.order = append(r.order, rule.ID())
	return nil
}

// Unregister removes a rule from the registry.
// Returns an error if the rule doesn't exist.
func (r *Registry) Unregister(ruleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[ruleID]; !exists {
		return fmt.Errorf("rule %s not found", ruleID)
	}

	delete(r.rules, ruleID)
	for i, id := range r.order {
		if id == ruleID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a rule by ID.
// Returns nil if the rule doesn't exist.
func (r *Registry) Get(ruleID string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rules[ruleID]
}

// GetBySignalType returns all enabled rules that handle a specific signal type,
// in registration order.
func (r *Registry) GetBySignalType(signalType string) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matching []Rule
	for _, id := range r.order {
		rule := r.rules[id]

		// Skip disabled rules
		if !rule.Config().Enabled {
			continue
		}

		// Check if rule handles this signal type
		signalTypes := rule.SignalTypes()
		if len(signalTypes) == 0 {
			// Empty slice means rule handles all types
			matching = append(matching, rule)
			continue
		}

		for _, st := range signalTypes {
			if st == signalType {
				matching = append(matching, rule)
				break
			}
		}
	}

	return matching
}

// GetAll returns all registered rules in registration order.
func (r *Registry) GetAll() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.order))
	for _, id := range r.order {
		rules = append(rules, r.rules[id])
	}

	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rules)
}
