package action

import (
	"fmt"
	"sync"
)

// Registry manages available actions.
// It provides thread-safe registration and lookup of actions and
// returns them in registration order.
type Registry struct {
	actions map[string]Action
	order   []string
	mu      sync.RWMutex
}

// NewRegistry creates a new empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Action),
	}
}

// Register adds an action to the registry.
// Returns an error if an action with the same ID already exists.
func (r *Registry) Register(action Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[action.ID()]; exists {
		return fmt.Errorf("action %s already registered", action.ID())
	}

	r.actions[action.ID()] = action
	r.order = append(r.order, action.ID())
	return nil
}

// Unregister removes an action from the registry.
// Returns an error if the action doesn't exist.
func (r *Registry) Unregister(actionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[actionID]; !exists {
		return fmt.Errorf("action %s not found", actionID)
	}

	delete(r.actions, actionID)
	for i, id := range r.order {
		if id == actionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns an action by ID.
// Returns nil if the action doesn't exist.
func (r *Registry) Get(actionID string) Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.actions[actionID]
}

// GetEnabled returns an action by ID only if it's enabled.
// Returns nil if the action doesn't exist or is disabled.
func (r *Registry) GetEnabled(actionID string) Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action := r.actions[actionID]
	if action != nil && !action.Config().Enabled {
		return nil
	}

	return action
}

// GetAll returns all registered actions in registration order.
func (r *Registry) GetAll() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]Action, 0, len(r.order))
	for _, id := range r.order {
		actions = append(actions, r.actions[id])
	}

	return actions
}

// GetAllEnabled returns all enabled actions in registration order.
func (r *Registry) GetAllEnabled() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var actions []Action
	for _, id := range r.order {
		if action := r.actions[id]; action.Config().Enabled {
			actions = append(actions, action)
		}
	}

	return actions
}

// Has reports whether an action with the ID is registered.
func (r *Registry) Has(actionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.actions[actionID]
	return ok
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.actions)
}
