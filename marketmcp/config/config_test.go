package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.HTTP.TimeoutSeconds)
	assert.EqualValues(t, DefaultMaxContentLength, cfg.HTTP.MaxContentLength)
	assert.Nil(t, cfg.HTTP.AllowDomains)
	assert.Equal(t, "reports", cfg.Paths.ReportsDir)
	assert.Equal(t, "sources", cfg.Paths.SourcesDir)
	assert.Equal(t, 500, cfg.Excerpts.MaxChars)
	assert.Equal(t, "unknown", cfg.Excerpts.DefaultPosition)
}

func TestLoadConfig_PartialSections(t *testing.T) {
	path := writeConfig(t, `
http:
  allow_domains: [example.com, example.org]
  max_content_length: 3
excerpts:
  max_chars: 200
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"example.com", "example.org"}, cfg.HTTP.AllowDomains)
	assert.EqualValues(t, 3, cfg.HTTP.MaxContentLength)
	assert.Equal(t, DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, 200, cfg.Excerpts.MaxChars)
	assert.Equal(t, "unknown", cfg.Excerpts.DefaultPosition)
	assert.Equal(t, "reports", cfg.Paths.ReportsDir)
}

func TestLoadConfig_EnvPath(t *testing.T) {
	path := writeConfig(t, "excerpts:\n  default_position: n/a\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "n/a", cfg.Excerpts.DefaultPosition)
}

func TestLoadConfig_EnvSecretsOverride(t *testing.T) {
	path := writeConfig(t, "storage:\n  endpoint: localhost:9000\n  access_key: from-file\n")
	t.Setenv("MINIO_ACCESS_KEY", "from-env")
	t.Setenv("DATABASE_DSN", "host=db")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Storage.AccessKey)
	assert.Equal(t, "host=db", cfg.Database.DSN)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := writeConfig(t, "http: [not, a, map\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_ExplicitZerosSurvive(t *testing.T) {
	path := writeConfig(t, `
http:
  max_content_length: 0
excerpts:
  max_chars: 0
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.EqualValues(t, 0, cfg.HTTP.MaxContentLength)
	assert.Equal(t, 0, cfg.Excerpts.MaxChars)
	assert.Equal(t, DefaultPosition, cfg.Excerpts.DefaultPosition)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.HTTP.TimeoutSeconds)
}

func TestLoadConfig_BlankStringsFallBack(t *testing.T) {
	path := writeConfig(t, `
http:
  user_agent: "  "
  timeout_seconds: 0
paths:
  reports_dir: ""
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, DefaultReportsDir, cfg.Paths.ReportsDir)
	assert.EqualValues(t, DefaultMaxContentLength, cfg.HTTP.MaxContentLength)
}
