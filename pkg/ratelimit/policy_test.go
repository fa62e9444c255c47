package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTierDuration(t *testing.T) {
	if Tier1.Duration() != 60*time.Second {
		t.Errorf("Tier1 = %v, want 60s", Tier1.Duration())
	}
	if Tier3.Duration() != 1200*time.Millisecond {
		t.Errorf("Tier3 = %v, want 1.2s", Tier3.Duration())
	}
}

func TestPolicyResolve(t *testing.T) {
	policy := NewPolicy(
		map[string]Tier{
			"conversations.history": Tier3,
			"files.upload":          Tier2,
		},
		map[string]Tier{
			"admin.":               Tier1,
			"admin.conversations.": Tier2,
			"files.":               Tier2,
		},
		Tier3,
	)

	tests := []struct {
		name   string
		method string
		want   Tier
	}{
		{
			name:   "exact override wins over matching prefix",
			method: "files.upload",
			want:   Tier2,
		},
		{
			name:   "exact override",
			method: "conversations.history",
			want:   Tier3,
		},
		{
			name:   "longest prefix wins",
			method: "admin.conversations.archive",
			want:   Tier2,
		},
		{
			name:   "shorter prefix for other admin methods",
			method: "admin.teams.list",
			want:   Tier1,
		},
		{
			name:   "no rule falls back to default",
			method: "chat.postMessage",
			want:   Tier3,
		},
		{
			name:   "prefix equal to full method name matches",
			method: "admin.",
			want:   Tier1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Resolve(tt.method))
		})
	}
}

func TestPolicyLongestPrefixTieBreak(t *testing.T) {
	policy := NewPolicy(nil, map[string]Tier{
		"admin.":               Tier1,
		"admin.conversations.": Tier2,
	}, Tier3)

	assert.Equal(t, Tier2, policy.Resolve("admin.conversations.archive"))
	assert.Equal(t, Tier1, policy.Resolve("admin.teams.list"))
}

func TestPolicyWithDefault(t *testing.T) {
	base := NewPolicy(nil, map[string]Tier{"users.": Tier2}, Tier3)
	derived := base.WithDefault(Tier4)

	// Derived policy uses the new fallback but shares rule tables.
	assert.Equal(t, Tier4, derived.Resolve("chat.postMessage"))
	assert.Equal(t, Tier2, derived.Resolve("users.info"))

	// Original is untouched.
	assert.Equal(t, Tier3, base.Resolve("chat.postMessage"))
}

func TestNewPolicyCopiesInput(t *testing.T) {
	overrides := map[string]Tier{"files.upload": Tier2}
	policy := NewPolicy(overrides, nil, Tier3)

	overrides["files.upload"] = Tier1

	assert.Equal(t, Tier2, policy.Resolve("files.upload"))
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		method string
		want   Tier
	}{
		{"conversations.history", Tier3},
		{"files.upload", Tier2},
		{"admin.users.list", Tier1},
		{"scim.Users", Tier2},
		{"conversations.members", Tier3},
		{"users.lookupByEmail", Tier2},
		{"team.info", Tier2},
		{"emoji.list", Tier3},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Resolve(tt.method))
		})
	}
}
