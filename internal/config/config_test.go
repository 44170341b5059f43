package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.MirrorBackend)
	assert.Equal(t, "America/Sao_Paulo", cfg.ShopTimezone)
	assert.Equal(t, 720*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.Twilio.Enabled())
	assert.False(t, cfg.Media.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MIRROR_BACKEND", "redis")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("MEDIA_BUCKET", "barber-media")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local,http://b.local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "redis", cfg.MirrorBackend)
	assert.True(t, cfg.AutoMigrate)
	assert.True(t, cfg.Media.Enabled())
	assert.Equal(t, time.Hour, cfg.Media.URLTTL)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORSOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")

	_, err := Load()
	assert.ErrorContains(t, err, "parse env:")
}
