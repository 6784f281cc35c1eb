package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BCRYPT_COST", "")

	cfg := Load()

	assert.Equal(t, 8, cfg.BcryptCost)
	assert.Equal(t, 1000000, cfg.AvatarMaxBytes)
	assert.Equal(t, 250, cfg.AvatarSize)
	assert.Equal(t, 15*time.Minute, cfg.UserCacheTTL)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "thisismysecret")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("USER_CACHE_TTL", "1m")
	t.Setenv("MAIL_SEND_ENABLED", "false")

	cfg := Load()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, time.Minute, cfg.UserCacheTTL)
	assert.False(t, cfg.MailSendEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "eight")
	t.Setenv("USER_CACHE_TTL", "soon")
	t.Setenv("HTTP_LOG_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 8, cfg.BcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.UserCacheTTL)
	assert.False(t, cfg.HTTPLogEnabled)
}

func TestValidate_BlankSecret(t *testing.T) {
	cfg := &Config{JWTSecret: "   "}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test "}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestLoad_LogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, "warn", Load().LogLevel)
}
