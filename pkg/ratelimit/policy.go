// Package ratelimit maps Slack API method names to pacing tiers.
// Slack publishes per-method rate limit tiers (docs.slack.dev/apis/web-api/rate-limits);
// the Policy here resolves a method name to the minimum delay the caller
// must keep between consecutive invocations of that method.
package ratelimit

import (
	"time"
)

// Tier is the minimum pacing interval for one rate limit tier.
type Tier time.Duration

// Slack Web API rate tier pacing defaults.
const (
	// Tier1 methods allow 1+ calls per minute.
	Tier1 = Tier(60 * time.Second)

	// Tier2 methods allow 20+ calls per minute.
	Tier2 = Tier(3 * time.Second)

	// Tier3 methods allow 50+ calls per minute.
	Tier3 = Tier(1200 * time.Millisecond)

	// Tier4 methods allow 100+ calls per minute.
	Tier4 = Tier(600 * time.Millisecond)
)

// Duration returns the tier's pacing interval.
func (t Tier) Duration() time.Duration {
	return time.Duration(t)
}

// Policy resolves a method name to its pacing tier.
//
// Resolution order: exact override, then longest matching prefix, then the
// fallback tier. Prefix rules of equal length must not overlap; which one
// wins in that case is unspecified.
//
// A Policy is immutable once built and safe for unsynchronized concurrent
// reads. Derived policies (WithDefault) share the rule tables.
type Policy struct {
	overrides map[string]Tier
	prefixes  map[string]Tier
	fallback  Tier
}

// NewPolicy builds a policy from exact method overrides and prefix rules.
// The maps are copied; later mutation of the arguments does not affect the
// returned policy.
func NewPolicy(overrides, prefixes map[string]Tier, fallback Tier) Policy {
	o := make(map[string]Tier, len(overrides))
	for k, v := range overrides {
		o[k] = v
	}
	p := make(map[string]Tier, len(prefixes))
	for k, v := range prefixes {
		p[k] = v
	}
	return Policy{overrides: o, prefixes: p, fallback: fallback}
}

// Resolve returns the pacing tier for a method name.
func (p Policy) Resolve(method string) Tier {
	if tier, ok := p.overrides[method]; ok {
		return tier
	}

	var (
		bestLen  = -1
		bestTier Tier
	)
	for prefix, tier := range p.prefixes {
		if len(prefix) > bestLen && len(method) >= len(prefix) && method[:len(prefix)] == prefix {
			bestLen = len(prefix)
			bestTier = tier
		}
	}
	if bestLen >= 0 {
		return bestTier
	}

	return p.fallback
}

// WithDefault returns a policy with the same rule tables but a different
// fallback tier. The receiver is not modified.
func (p Policy) WithDefault(fallback Tier) Policy {
	return Policy{overrides: p.overrides, prefixes: p.prefixes, fallback: fallback}
}

// DefaultPolicy returns the stock Slack Web API policy. Only the truly
// special cases get exact overrides; method families are covered by prefix
// rules.
func DefaultPolicy() Policy {
	return NewPolicy(
		map[string]Tier{
			"conversations.history": Tier3,
			"files.upload":          Tier2,
		},
		map[string]Tier{
			"admin.":         Tier1,
			"scim.":          Tier2,
			"conversations.": Tier3,
			"chat.":          Tier3,
			"files.":         Tier2,
			"users.":         Tier2,
			"team.":          Tier2,
		},
		Tier3,
	)
}
