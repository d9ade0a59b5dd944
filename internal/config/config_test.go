package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, ModeOffline, cfg.Linking.Mode)
	assert.Equal(t, 0.3, cfg.Ensemble.RuleWeight)
	assert.Equal(t, 0.7, cfg.Ensemble.MLWeight)
	assert.Equal(t, 86400, cfg.Cache.TTLSeconds)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `debug = true

[linking]
mode = "hybrid"
confidence_threshold = 0.6

[ensemble]
rule_weight = 0.4
ml_weight = 0.6

[cache]
backend = "memory"
ttl_seconds = 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, ModeHybrid, cfg.Linking.Mode)
	assert.Equal(t, 0.6, cfg.Linking.ConfidenceThreshold)
	assert.Equal(t, 0.4, cfg.Ensemble.RuleWeight)
	// Unset sections keep defaults.
	assert.Equal(t, 4, cfg.Concurrency.BatchWorkers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUTOGRAPH_MODE", "online")
	t.Setenv("AUTOGRAPH_CONFIDENCE_THRESHOLD", "0.8")
	t.Setenv("NEO4J_URI", "bolt://db:7687")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, ModeOnline, cfg.Linking.Mode)
	assert.Equal(t, 0.8, cfg.Linking.ConfidenceThreshold)
	assert.Equal(t, "bolt://db:7687", cfg.Neo4j.URI)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Linking.Mode = "turbo"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Linking.ConfidenceThreshold = 1.5
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Cache.Backend = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Concurrency.BatchWorkers = 0
	assert.Error(t, cfg.Validate())
}
