package config

import (
	"testing"
	"time"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type ConfigSuite struct {
	suite.Suite
}

func (s *ConfigSuite) TestDefaults(t provider.T) {
	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "RW", cfg.HTTP.Mode)
	assert.Equal(t, cfg.Postgres.User, cfg.Postgres.ReaderUser)
	assert.Equal(t, cfg.Postgres.Password, cfg.Postgres.ReaderPassword)
	assert.True(t, cfg.Postgres.Migrate)
	assert.Equal(t, 5, cfg.Session.CodeAttempts)
	assert.Equal(t, time.Minute, cfg.Throttle.Window)
	assert.Zero(t, cfg.Throttle.JoinAttempts)
	assert.Empty(t, cfg.HTTP.TrustedProxies)
}

func TestConfigSuite(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("HTTP_MODE", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_READER_USER", "")
	t.Setenv("DB_READER_PASSWORD", "")
	t.Setenv("DB_MIGRATE", "")
	t.Setenv("SESSION_CODE_ATTEMPTS", "")
	t.Setenv("JOIN_ATTEMPTS_WINDOW", "")
	t.Setenv("JOIN_ATTEMPTS_LIMIT", "")
	t.Setenv("HTTP_TRUSTED_PROXIES", "")
	suite.RunSuite(t, new(ConfigSuite))
}

func TestOverrides(t *testing.T) {
	t.Setenv("DB_USER", "writer")
	t.Setenv("DB_READER_USER", "reader")
	t.Setenv("SESSION_CODE_ATTEMPTS", "7")
	t.Setenv("JOIN_ATTEMPTS_WINDOW", "30s")
	t.Setenv("TMDB_RPS", "not-a-number")
	t.Setenv("HTTP_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")

	cfg := FromEnv()

	assert.Equal(t, "writer", cfg.Postgres.User)
	assert.Equal(t, "reader", cfg.Postgres.ReaderUser)
	assert.Equal(t, 7, cfg.Session.CodeAttempts)
	assert.Equal(t, 30*time.Second, cfg.Throttle.Window)
	assert.Equal(t, float64(20), cfg.Catalog.RPS)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.HTTP.TrustedProxies)
}
