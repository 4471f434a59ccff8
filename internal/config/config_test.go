package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 10*time.Minute, cfg.Verification.CodeTTL)
	assert.Equal(t, 60*time.Second, cfg.Verification.SendCooldown)
	assert.Equal(t, 6, cfg.Verification.CodeLength)
	assert.Equal(t, 30*time.Second, cfg.RegisterCooldown)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, "users", cfg.DynamoTables.Users)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VERIFY_CODE_TTL", "5m")
	t.Setenv("VERIFY_SEND_COOLDOWN", "45")
	t.Setenv("REGISTER_COOLDOWN", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.edu,https://b.edu")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	assert.Equal(t, 5*time.Minute, cfg.Verification.CodeTTL)
	assert.Equal(t, 45*time.Second, cfg.Verification.SendCooldown)
	assert.Equal(t, 30*time.Second, cfg.RegisterCooldown, "invalid value falls back")
	assert.Equal(t, []string{"https://a.edu", "https://b.edu"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsProduction())
}
