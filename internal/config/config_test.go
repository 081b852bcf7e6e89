package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("NOTIFY_RELAY", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.False(t, cfg.NotifyRelay)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("NOTIFY_RELAY", "true")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("WS_SEND_BUFFER", "not-a-number")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.True(t, cfg.NotifyRelay)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.Equal(t, 16, cfg.WSSendBufferSize)
}
