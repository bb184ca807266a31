package config

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"storeguard/internal/ratelimit/models"
)

// Config holds rate limiting configuration.
type Config struct {
	// Named fixed-window policies by action.
	Policies map[models.Action]models.Policy

	// CleanupInterval controls how often expired in-memory entries are pruned.
	CleanupInterval time.Duration
}

// DefaultPolicies returns the storefront's named budgets.
func DefaultPolicies() map[models.Action]models.Policy {
	return map[models.Action]models.Policy{
		models.ActionLogin:         {MaxRequests: 5, Window: 15 * time.Minute},
		models.ActionAdminLogin:    {MaxRequests: 3, Window: 15 * time.Minute},
		models.ActionCreateOrder:   {MaxRequests: 3, Window: time.Hour},
		models.ActionPasswordReset: {MaxRequests: 3, Window: time.Hour},
		models.ActionCreateProduct: {MaxRequests: 20, Window: time.Minute},
		models.ActionAPICall:       {MaxRequests: 100, Window: time.Minute},
		models.ActionSearch:        {MaxRequests: 30, Window: time.Minute},
	}
}

// DefaultConfig returns the default policies and a 5 minute cleanup cadence.
func DefaultConfig() *Config {
	return &Config{
		Policies:        DefaultPolicies(),
		CleanupInterval: 5 * time.Minute,
	}
}

// WithOverrides returns a copy of the config with the given policies replaced.
// Invalid overrides are ignored.
func (c *Config) WithOverrides(overrides map[models.Action]models.Policy) *Config {
	out := &Config{
		Policies:        maps.Clone(c.Policies),
		CleanupInterval: c.CleanupInterval,
	}
	for action, policy := range overrides {
		if policy.Valid() {
			out.Policies[action] = policy
		}
	}
	return out
}

// ParsePolicies reads overrides written as "ACTION=MAX/WINDOW" pairs separated
// by commas, e.g. "ADMIN_LOGIN=5/15m,SEARCH=60/1m". Action names are
// upper-cased. An empty string yields no overrides.
func ParsePolicies(raw string) (map[models.Action]models.Policy, error) {
	out := make(map[models.Action]models.Policy)
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, spec, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("policy %q: expected ACTION=MAX/WINDOW", part)
		}
		maxRaw, windowRaw, ok := strings.Cut(spec, "/")
		if !ok {
			return nil, fmt.Errorf("policy %q: expected MAX/WINDOW", part)
		}
		maxRequests, err := strconv.Atoi(strings.TrimSpace(maxRaw))
		if err != nil {
			return nil, fmt.Errorf("policy %q: max requests: %w", part, err)
		}
		window, err := time.ParseDuration(strings.TrimSpace(windowRaw))
		if err != nil {
			return nil, fmt.Errorf("policy %q: window: %w", part, err)
		}
		policy := models.Policy{MaxRequests: maxRequests, Window: window}
		if !policy.Valid() {
			return nil, fmt.Errorf("policy %q: max requests and window must be positive", part)
		}
		action := models.Action(strings.ToUpper(strings.TrimSpace(name)))
		if action == "" {
			return nil, fmt.Errorf("policy %q: missing action", part)
		}
		out[action] = policy
	}
	return out, nil
}
