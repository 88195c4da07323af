package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, "http", cfg.Indexer.Fetcher)
	assert.Equal(t, "paragraphs", cfg.Indexer.Extractor)
	assert.Equal(t, 100, cfg.Indexer.MaxSentences)
	assert.Equal(t, "file", cfg.Storage.Index.Backend)
	assert.Equal(t, "indexed_content.json", cfg.Storage.Index.Path)
	assert.Equal(t, "inmemory", cfg.Session.Backend)
	assert.Equal(t, 5, cfg.Session.ContextWindow)
	assert.Equal(t, DefaultQAModel, cfg.QA.Model)
	assert.Equal(t, 60*time.Second, cfg.QA.Timeout)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
  "server": {"address": ":9999"},
  "session": {"backend": "redis", "context_window": 3},
  "storage": {"redis": {"host": "redis", "port": "6380"}},
  "indexer": {"host_policy": {"disallow": ["WWW.Blocked.com"]}}
}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("WEBQA_QA_PROVIDER", "ollama")
	t.Setenv("WEBQA_QA_MODEL", "llama3.2")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 3, cfg.Session.ContextWindow)
	assert.Equal(t, "redis:6380", cfg.Storage.Redis.Addr())
	assert.Equal(t, "ollama", cfg.QA.Provider)
	assert.Equal(t, "llama3.2", cfg.QA.Model)
	assert.Equal(t, []string{"blocked.com"}, cfg.Indexer.HostPolicy.Disallow)
}

func TestLoadConfigEnvOnlySecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WEBQA_QA_API_KEY", "hf_secret")
	t.Setenv("WEBQA_STORAGE_POSTGRES_URL", "postgres://u:p@h/db")
	t.Setenv("WEBQA_STORAGE_POSTGRES_PASSWORD", "pgpw")
	t.Setenv("WEBQA_STORAGE_REDIS_PASSWORD", "pw")
	t.Setenv("WEBQA_SESSION_TTL", "1h")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "hf_secret", cfg.QA.APIKey)
	assert.Equal(t, "postgres://u:p@h/db", cfg.Storage.Postgres.URL)
	assert.Equal(t, "postgres://u:p@h/db", cfg.Storage.Postgres.DSN())
	assert.Equal(t, "pgpw", cfg.Storage.Postgres.Password)
	assert.Equal(t, "pw", cfg.Storage.Redis.Password)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage":{"index":{"backend":"s3"}}}`), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.index.backend")
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", User: "u", Password: "p", DBName: "webqa"}
	assert.Equal(t, "postgres://u:p@db:5432/webqa?sslmode=disable", p.DSN())

	p.URL = "postgres://override"
	assert.Equal(t, "postgres://override", p.DSN())
}
