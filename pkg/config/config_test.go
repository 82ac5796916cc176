package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "none", c.Backend.Type)
	assert.Equal(t, "all", c.Aggregator.Strategy)
	assert.Equal(t, 120, c.Aggregator.TailSize)
	assert.Equal(t, 45*time.Second, c.Aggregator.Timeout)
	assert.Equal(t, "https://api.stlouisfed.org/fred", c.FRED.BaseURL)
	assert.Equal(t, "info", c.Log.Level)
	assert.Zero(t, c.Cache.TTL)

	require.Len(t, c.Indicators, 5)
	assert.Equal(t, "INDPRO", c.Indicators[0].ID)
}

func TestParseFillsSourceURL(t *testing.T) {
	c, err := Parse([]byte(`
indicators:
  - id: CPIAUCSL
    name: Consumer Price Index
    kind: Pro-cyclical
    frequency: Monthly
`))
	require.NoError(t, err)
	require.Len(t, c.Indicators, 1)
	assert.Equal(t, "https://fred.stlouisfed.org/series/CPIAUCSL", c.Indicators[0].SourceURL)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown strategy", "aggregator:\n  strategy: first\n"},
		{"unknown backend", "backend:\n  type: s3\n"},
		{"kafka without brokers", "backend:\n  type: kafka\n"},
		{"clickhouse without host", "backend:\n  type: clickhouse\n"},
		{"consumer without clickhouse", "kafka:\n  brokers: [localhost:9092]\n  consumer:\n    enabled: true\n"},
		{"unknown kind", "indicators:\n  - {id: X, name: X, kind: Lagging, frequency: Monthly}\n"},
		{"duplicate id", "indicators:\n  - {id: X, name: X, kind: Leading, frequency: Monthly}\n  - {id: X, name: Y, kind: Leading, frequency: Monthly}\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"limit below one year", "fred:\n  limit: 5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)

	env := map[string]string{
		"FRED_API_KEY":   "fred-key",
		"GEMINI_API_KEY": "gemini-key",
		"KAFKA_BROKERS":  "a:9092,b:9092",
		"REDIS_ADDR":     "redis:6379",
		"PORT":           "9090",
	}
	c.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "fred-key", c.FRED.APIKey)
	assert.Equal(t, "gemini-key", c.Commentary.APIKey)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Cache.Redis.Enabled)
	assert.Equal(t, "redis:6379", c.Cache.Redis.Addr)
	assert.Equal(t, 9090, c.Server.Port)
}

func TestApplyEnvPrefersGenAIKey(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)

	env := map[string]string{"GENAI_API_KEY": "genai", "GEMINI_API_KEY": "gemini"}
	c.applyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "genai", c.Commentary.APIKey)
}

func TestLoadWithEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: staging\n"), 0o600))

	t.Setenv("FRED_API_KEY", "from-env")
	t.Setenv("BACKEND", "clickhouse")
	t.Setenv("CLICKHOUSE_HOST", "ch")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", c.Environment)
	assert.Equal(t, "from-env", c.FRED.APIKey)
	assert.Equal(t, "clickhouse", c.Backend.Type)
	assert.Equal(t, "ch", c.ClickHouse.Host)
}

func TestLoadWithEnvValidatesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	t.Setenv("BACKEND", "kafka")
	_, err := LoadWithEnv(path)
	assert.Error(t, err)
}

func TestLoadSampleConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.Len(t, c.Indicators, 5)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, 5*time.Minute, c.Cache.TTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
