package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/AccelByte/extend-countdown-challenge/pkg/action"
	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Rule and action type names used by DefaultConfig. They mirror the
// builtin packages, which this package must not import.
const (
	milestoneBonusType  = "milestone_bonus"
	challengeResultType = "challenge_result"
	awardScoreType      = "award_score"
	announceType        = "announce"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Name            string         `yaml:"name,omitempty"`
	RollbackOnError *bool          `yaml:"rollback_on_error,omitempty"`
	Rules           []RuleConfig   `yaml:"rules"`
	Actions         []ActionConfig `yaml:"actions"`
}

// RuleConfig represents a rule configuration entry.
type RuleConfig struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name,omitempty"`
	Type       string                 `yaml:"type"`
	Enabled    bool                   `yaml:"enabled"`
	Priority   int                    `yaml:"priority,omitempty"`
	Actions    []string               `yaml:"actions,omitempty"` // Action IDs to execute when rule triggers
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// ActionConfig represents an action configuration entry.
type ActionConfig struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name,omitempty"`
	Type       string                 `yaml:"type"`
	Enabled    bool                   `yaml:"enabled"`
	Retry      *action.RetryConfig    `yaml:"retry,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// LoadConfig loads pipeline configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates a YAML pipeline document.
func ParseConfig(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadConfigOrDefault loads path, falling back to DefaultConfig(def) when
// the file does not exist. Any other read or parse failure is returned.
func LoadConfigOrDefault(path string, def countdown.Definition) (*Config, error) {
	config, err := LoadConfig(path)
	if err == nil {
		return config, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("pipeline config %s not found, using built-in milestones", path)
		return DefaultConfig(def), nil
	}
	return nil, err
}

// DefaultConfig returns the pipeline awarding the definition's milestones
// in order and announcing every resolved daily challenge.
func DefaultConfig(def countdown.Definition) *Config {
	rollback := true
	config := &Config{
		Name:            "countdown",
		RollbackOnError: &rollback,
		Actions: []ActionConfig{
			{ID: "award-score", Type: awardScoreType, Enabled: true},
			{ID: "announce", Type: announceType, Enabled: true},
		},
	}

	for _, m := range def.Milestones() {
		config.Rules = append(config.Rules, RuleConfig{
			ID:       m.Reason,
			Type:     milestoneBonusType,
			Enabled:  true,
			Priority: 10,
			Actions:  []string{"award-score", "announce"},
			Parameters: map[string]interface{}{
				"day":     m.Day,
				"points":  m.Points,
				"reason":  m.Reason,
				"message": m.Message,
			},
		})
	}

	config.Rules = append(config.Rules, RuleConfig{
		ID:       "challenge-result",
		Type:     challengeResultType,
		Enabled:  true,
		Priority: 5,
		Actions:  []string{"announce"},
		Parameters: map[string]interface{}{
			"on": "any",
		},
	})

	return config
}

// Validate validates the configuration for common errors.
func (c *Config) Validate() error {
	// Check for duplicate rule IDs
	ruleIDs := make(map[string]bool)
	for _, rule := range c.Rules {
		if rule.ID == "" {
			return fmt.Errorf("rule with empty ID found")
		}
		if ruleIDs[rule.ID] {
			return fmt.Errorf("duplicate rule ID: %s", rule.ID)
		}
		ruleIDs[rule.ID] = true

		if rule.Type == "" {
			return fmt.Errorf("rule %s has empty type", rule.ID)
		}
	}

	// Check for duplicate action IDs
	actionIDs := make(map[string]bool)
	for _, action := range c.Actions {
		if action.ID == "" {
			return fmt.Errorf("action with empty ID found")
		}
		if actionIDs[action.ID] {
			return fmt.Errorf("duplicate action ID: %s", action.ID)
		}
		actionIDs[action.ID] = true

		if action.Type == "" {
			return fmt.Errorf("action %s has empty type", action.ID)
		}
		if r := action.Retry; r != nil && (r.MaxAttempts < 0 || r.Delay < 0) {
			return fmt.Errorf("action %s has a negative retry setting", action.ID)
		}
	}

	// Validate that all action references in rules exist
	for _, rule := range c.Rules {
		for _, actionID := range rule.Actions {
			if !actionIDs[actionID] {
				return fmt.Errorf("rule %s references unknown action: %s", rule.ID, actionID)
			}
		}
	}

	return nil
}

// RuleConfigs converts the entries into rule factory configurations, in order.
func (c *Config) RuleConfigs() []rule.RuleConfig {
	out := make([]rule.RuleConfig, 0, len(c.Rules))
	for _, rc := range c.Rules {
		out = append(out, rule.RuleConfig{
			ID:         rc.ID,
			Name:       rc.Name,
			Type:       rc.Type,
			Enabled:    rc.Enabled,
			Priority:   rc.Priority,
			Parameters: rc.Parameters,
		})
	}
	return out
}

// ActionConfigs converts the entries into action factory configurations, in order.
func (c *Config) ActionConfigs() []action.ActionConfig {
	out := make([]action.ActionConfig, 0, len(c.Actions))
	for _, ac := range c.Actions {
		out = append(out, action.ActionConfig{
			ID:         ac.ID,
			Name:       ac.Name,
			Type:       ac.Type,
			Enabled:    ac.Enabled,
			Retry:      ac.Retry,
			Parameters: ac.Parameters,
		})
	}
	return out
}

// Pipeline builds the rule-to-actions wiring of the enabled rules.
func (c *Config) Pipeline() *Pipeline {
	name := c.Name
	if name == "" {
		name = "default"
	}

	p := NewPipeline(name)
	if c.RollbackOnError != nil {
		p.SetRollbackOnError(*c.RollbackOnError)
	}
	for _, rc := range c.Rules {
		if !rc.Enabled {
			continue
		}
		p.AddRule(rc.ID)
		if len(rc.Actions) > 0 {
			p.AddActions(rc.ID, rc.Actions...)
		}
	}
	return p
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		// Support ${VAR:default} syntax
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
