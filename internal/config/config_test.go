package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("COMPANION_ENDPOINT", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("ALLOWED_HEADERS", "")

	conf := ReadConfig()

	assert.Equal(t, "0.0.0.0:6060", conf.SERVER_ADDR)
	assert.Equal(t, 0, conf.REDIS_DB)
	assert.Equal(t, 5*time.Minute, conf.CacheTTL())
	assert.Equal(t, "http://localhost:6060", conf.COMPANION_ENDPOINT)
	assert.Equal(t, 30*time.Second, conf.HTTPTimeout())
	assert.Equal(t, "Content-Type,Traceparent", conf.ALLOWED_HEADERS)
}

func TestReadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL_SECONDS", "10")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "not-a-number")

	conf := ReadConfig()

	assert.Equal(t, "db.internal", conf.DB_HOST)
	assert.Equal(t, "redis:6379", conf.REDIS_ADDR)
	assert.Equal(t, 3, conf.REDIS_DB)
	assert.Equal(t, 10*time.Second, conf.CacheTTL())
	assert.Equal(t, 30*time.Second, conf.HTTPTimeout())
}
