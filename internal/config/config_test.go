package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"EMAILPOST_WEBHOOK_ROUTE", "EMAILPOST_PARENT_ROUTE", "EMAILPOST_TEMPLATE", "DEBUG", "DB_HOST", "MINIO_ENDPOINT"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "/emailpost", cfg.Webhook.Route)
	assert.Equal(t, "/blog", cfg.Webhook.ParentRoute)
	assert.Equal(t, "item", cfg.Webhook.Template)
	assert.Equal(t, "/admin", cfg.Webhook.AdminRoute)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.MinIO.Enabled())
}

func TestLoad(t *testing.T) {
	t.Setenv("EMAILPOST_WEBHOOK_ROUTE", "/hooks/mail/")
	t.Setenv("EMAILPOST_TEMPLATE", "post")
	t.Setenv("EMAILPOST_VERBOSE", "true")
	t.Setenv("DEBUG", "1")
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_PREFIX", "mail/")

	cfg := Load()

	assert.Equal(t, "/hooks/mail/", cfg.Webhook.Route)
	assert.Equal(t, "post", cfg.Webhook.Template)
	assert.True(t, cfg.Webhook.Verbose)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "mail/", cfg.MinIO.Prefix)
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "UTC"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Timezone = ""
	assert.Equal(t, time.Local, cfg.Location())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
