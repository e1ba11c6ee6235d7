package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 10, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	assert.Equal(t, 7, cfg.InviteCode.Length)
	assert.Equal(t, 5, cfg.InviteCode.Attempts)
	assert.Equal(t, time.Minute, cfg.Cache.StatsTTL)
	assert.False(t, cfg.Auth.Enabled)
}

func TestOverridesAreSanitised(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("INVITE_CODE_LENGTH", 3)
	v.Set("INVITE_CODE_ATTEMPTS", 0)
	v.Set("PAGINATION_DEFAULT_LIMIT", 500)
	v.Set("PAGINATION_MAX_LIMIT", 50)
	v.Set("STATS_CACHE_TTL", "not-a-duration")

	cfg := fromViper(v)

	assert.Equal(t, 7, cfg.InviteCode.Length)
	assert.Equal(t, 5, cfg.InviteCode.Attempts)
	assert.Equal(t, 50, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 50, cfg.Pagination.MaxLimit)
	assert.Equal(t, time.Minute, cfg.Cache.StatsTTL)
}
