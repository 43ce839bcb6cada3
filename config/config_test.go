package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("ADMIN_PASSWORD", "hostpw")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("NATS_URL", "")
	t.Setenv("EVENT_TTL_HOURS", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.EventTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "hostpw", cfg.AdminPassword)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestLoadRequiresAdminSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}

func TestLoadAcceptsPasswordHashAlone(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$12$fakehash")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.AdminPassword)
	assert.Equal(t, "$2a$12$fakehash", cfg.AdminPasswordHash)
}

func TestLoadRejectsBadPort(t *testing.T) {
	setRequired(t)

	for _, port := range []string{"abc", "0", "70000", "-1"} {
		t.Setenv("SERVER_PORT", port)
		_, err := Load()
		assert.Error(t, err, "port %q", port)
	}
}

func TestLoadParsesOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	setRequired(t)

	for _, ttl := range []string{"abc", "0", "-3"} {
		t.Setenv("EVENT_TTL_HOURS", ttl)
		_, err := Load()
		assert.Error(t, err, "ttl %q", ttl)
	}
}
