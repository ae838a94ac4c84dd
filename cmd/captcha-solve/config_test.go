package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	captcha "github.com/anatolykoptev/go-captcha"
	"github.com/anatolykoptev/go-captcha/transport"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solver.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestClientConfig(t *testing.T) {
	path := writeConfig(t, `
[solver]
transport         = gentleman
poll_interval     = 5s
timeout           = 2m
max_polls         = 40
max_resubmits     = 3
transport_retries = 2
balance_warn_level = 1.5

[capsolver]
api_key = CAP-file
`)
	fc, err := loadConfig(path)
	require.NoError(t, err)

	cfg, err := fc.clientConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, 40, cfg.MaxPolls)
	assert.Equal(t, 3, cfg.MaxResubmits)
	assert.Equal(t, 2, cfg.TransportRetries)
	assert.InDelta(t, 1.5, cfg.BalanceWarnLevel, 1e-9)
	assert.IsType(t, &transport.Gentleman{}, cfg.Transport)

	t.Setenv("CAPTCHA_API_KEY", "")
	assert.Equal(t, "CAP-file", fc.apiKey("capsolver"))
	assert.Empty(t, fc.apiKey("twocaptcha"))

	t.Setenv("CAPTCHA_API_KEY", "CAP-env")
	assert.Equal(t, "CAP-env", fc.apiKey("capsolver"))
}

func TestEmptyConfigDefaults(t *testing.T) {
	fc, err := loadConfig("")
	require.NoError(t, err)

	cfg, err := fc.clientConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.PollInterval)
	assert.Zero(t, cfg.MaxPolls)
	assert.NotNil(t, cfg.Transport)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.ini"))
	assert.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	f, err := parseFlags([]string{"-provider", "twocaptcha", "-kind", "image", "-image", "a.png", "-module", "common"})
	require.NoError(t, err)
	assert.Equal(t, "twocaptcha", f.provider)
	assert.Equal(t, "image", f.kind)
	assert.Equal(t, "a.png", f.image)
	assert.Equal(t, "common", f.module)

	_, err = newProvider("nope", "k", captcha.Config{})
	assert.Error(t, err)
}
