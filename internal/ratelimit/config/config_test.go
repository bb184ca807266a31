package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeguard/internal/ratelimit/models"
)

func TestDefaultPolicies(t *testing.T) {
	p := DefaultPolicies()

	assert.Equal(t, models.Policy{MaxRequests: 5, Window: 15 * time.Minute}, p[models.ActionLogin])
	assert.Equal(t, models.Policy{MaxRequests: 3, Window: 15 * time.Minute}, p[models.ActionAdminLogin])
	assert.Equal(t, models.Policy{MaxRequests: 3, Window: time.Hour}, p[models.ActionCreateOrder])
	assert.Equal(t, models.Policy{MaxRequests: 3, Window: time.Hour}, p[models.ActionPasswordReset])
	assert.Equal(t, models.Policy{MaxRequests: 20, Window: time.Minute}, p[models.ActionCreateProduct])
	assert.Equal(t, models.Policy{MaxRequests: 100, Window: time.Minute}, p[models.ActionAPICall])
	assert.Equal(t, models.Policy{MaxRequests: 30, Window: time.Minute}, p[models.ActionSearch])
}

func TestWithOverrides(t *testing.T) {
	base := DefaultConfig()
	out := base.WithOverrides(map[models.Action]models.Policy{
		models.ActionSearch:     {MaxRequests: 60, Window: time.Minute},
		models.ActionAdminLogin: {MaxRequests: 0, Window: time.Minute},
	})

	assert.Equal(t, 60, out.Policies[models.ActionSearch].MaxRequests)
	assert.Equal(t, 3, out.Policies[models.ActionAdminLogin].MaxRequests, "invalid override ignored")
	assert.Equal(t, 30, base.Policies[models.ActionSearch].MaxRequests, "base config untouched")
}

func TestParsePolicies(t *testing.T) {
	t.Run("reads overrides", func(t *testing.T) {
		got, err := ParsePolicies(" admin_login=5/30m, SEARCH=60/1m ,")
		require.NoError(t, err)
		assert.Equal(t, map[models.Action]models.Policy{
			models.ActionAdminLogin: {MaxRequests: 5, Window: 30 * time.Minute},
			models.ActionSearch:     {MaxRequests: 60, Window: time.Minute},
		}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := ParsePolicies("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	for _, raw := range []string{"SEARCH", "SEARCH=60", "SEARCH=x/1m", "SEARCH=60/soon", "SEARCH=0/1m", "=5/1m"} {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := ParsePolicies(raw)
			assert.Error(t, err)
		})
	}
}

func TestParsedOverridesApplyToDefaults(t *testing.T) {
	overrides, err := ParsePolicies("ADMIN_LOGIN=10/1h")
	require.NoError(t, err)

	cfg := DefaultConfig().WithOverrides(overrides)
	assert.Equal(t, models.Policy{MaxRequests: 10, Window: time.Hour}, cfg.Policies[models.ActionAdminLogin])
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
}
