package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/dbtour/pkg/config"
)

func TestNewDefaultsAreValid(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "localhost:9851", cfg.Tile38.Addr)
	assert.Equal(t, 512, cfg.Chroma.Dimension)
	assert.Equal(t, time.Second, cfg.Redis.LoadDelay)
}

func TestLoadWithoutFiles(t *testing.T) {
	cfg, err := config.Load("", "")
	require.NoError(t, err)
	assert.Equal(t, config.New(), cfg)
}

func TestLoadIgnoresUnprefixedEnv(t *testing.T) {
	t.Setenv("PATH", "/usr/local/bin:/usr/bin:/bin")
	t.Setenv("URL", "http://elsewhere:1")
	t.Setenv("USERNAME", "someone")
	t.Setenv("PASSWORD", "hunter2")
	t.Setenv("DSN", "postgres://elsewhere/db")
	t.Setenv("DATABASE", "other")
	t.Setenv("TOKEN", "t0ken")

	cfg, err := config.Load("", "")
	require.NoError(t, err)
	assert.Equal(t, config.New(), cfg)
}

func TestLoadMultiWordEnv(t *testing.T) {
	t.Setenv("DBTOUR_LOG_PATH", "/tmp/dbtour.log")
	t.Setenv("DBTOUR_CHROMA_OLLAMA_URL", "http://gpu:11434")
	t.Setenv("DBTOUR_CLICKHOUSE_USER_ACTIONS", "42")
	t.Setenv("DBTOUR_CLICKHOUSE_BATCH_SIZE", "7")
	t.Setenv("DBTOUR_REDIS_LOAD_DELAY", "5ms")
	t.Setenv("DBTOUR_TILE38_WEBHOOK_URL", "http://hooks:8080/fleet")

	cfg, err := config.Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/dbtour.log", cfg.Log.Path)
	assert.Equal(t, "http://gpu:11434", cfg.Chroma.OllamaURL)
	assert.Equal(t, 42, cfg.ClickHouse.UserActions)
	assert.Equal(t, 7, cfg.ClickHouse.BatchSize)
	assert.Equal(t, 5*time.Millisecond, cfg.Redis.LoadDelay)
	assert.Equal(t, "http://hooks:8080/fleet", cfg.Tile38.WebhookURL)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dbtour.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
redis:
  url: redis://cache:6379/2
  load_delay: 250ms
clickhouse:
  user_actions: 1000
  metrics: 500
`), 0o600))

	t.Setenv("DBTOUR_REDIS_URL", "redis://override:6379/3")
	t.Setenv("DBTOUR_NEO4J_PASSWORD", "secret")

	cfg, err := config.Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "redis://override:6379/3", cfg.Redis.URL)
	assert.Equal(t, 250*time.Millisecond, cfg.Redis.LoadDelay)
	assert.Equal(t, 1000, cfg.ClickHouse.UserActions)
	assert.Equal(t, 500, cfg.ClickHouse.Metrics)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	// untouched sections keep their defaults
	assert.Equal(t, "neo4j", cfg.Neo4j.Username)
}

func TestLoadEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DBTOUR_MONGO_DATABASE=tour_from_dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DBTOUR_MONGO_DATABASE") })

	cfg, err := config.Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "tour_from_dotenv", cfg.Mongo.Database)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	_, err := config.Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.New()
	cfg.Postgres.DSN = ""
	cfg.Chroma.Embedder = "word2vec"
	cfg.ClickHouse.BatchSize = 0
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.dsn is required")
	assert.Contains(t, err.Error(), `chroma.embedder must be hash or ollama, got "word2vec"`)
	assert.Contains(t, err.Error(), "clickhouse.batch_size must be positive")
	assert.Contains(t, err.Error(), `log.format must be console or json, got "xml"`)
}
