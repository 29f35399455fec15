package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_PATH", "ADMIN_EMAILS", "DIGEST_CRON"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "./brewbook.db", cfg.DatabasePath)
	assert.Equal(t, "@daily", cfg.DigestCron)
	assert.Empty(t, cfg.AdminEmails)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_EMAILS", "a@x.com, root@x.com ,")
	t.Setenv("DIGEST_CRON", "0 6 * * *")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"a@x.com", "root@x.com"}, cfg.AdminEmails)
	assert.Equal(t, "0 6 * * *", cfg.DigestCron)
}

func TestLoadBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}
