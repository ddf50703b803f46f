package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/bluebird/internal/draft"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvBaseURL, EnvToken, EnvTimeout, "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Equal(t, "https://api.bluebird.ai", cfg.Service.BaseURL)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
service:
  base_url: http://localhost:8787
  timeout: 5s
  token: abc
defaults:
  tone: more_formal
gmail:
  account: work
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8787", cfg.Service.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Service.Timeout)
	assert.Equal(t, "abc", cfg.Service.Token)
	assert.Equal(t, draft.ToneMoreFormal, cfg.Defaults.Tone)
	assert.Equal(t, draft.ActionRewrite, cfg.Defaults.Action, "missing fields fall back to defaults")
	assert.Equal(t, "work", cfg.Gmail.Account)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "http://127.0.0.1:9000")
	t.Setenv(EnvToken, "from-env")
	t.Setenv(EnvTimeout, "2s")

	cfg, err := Load(writeConfig(t, "service:\n  base_url: https://example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Service.BaseURL)
	assert.Equal(t, "from-env", cfg.Service.Token)
	assert.Equal(t, 2*time.Second, cfg.Service.Timeout)

	t.Setenv(EnvTimeout, "soon")
	_, err = Load("")
	assert.ErrorContains(t, err, EnvTimeout)
}

func TestLoad_ParseError(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "service: [unclosed"))
	assert.ErrorContains(t, err, "parse config file")
}

func TestValidate_FieldErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.BaseURL = "ftp://example.com"
	cfg.Service.Timeout = -time.Second
	cfg.Defaults.Tone = "sarcastic"
	cfg.Defaults.Action = "translate"
	cfg.Gmail.Account = "me@example.com"

	err := cfg.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 5)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{
		"service.base_url", "service.timeout", "defaults.tone", "defaults.action", "gmail.account",
	}, fields)
}

func TestValidate_Default(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestGmailCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_CLIENT_ID", "env-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "env-secret")

	creds := GmailConfig{ClientID: "file-id"}.Credentials()
	assert.Equal(t, "file-id", creds.ClientID)
	assert.Equal(t, "env-secret", creds.ClientSecret)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "bluebird", "config.yaml"), DefaultPath())
}
