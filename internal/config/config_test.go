package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/omen/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10, cfg.Analysis.MaxConcurrentAnalyses)
	assert.Equal(t, 3, cfg.Coupling.MinCochanges)
	assert.Equal(t, 10000, cfg.Semantic.MaxVocab)
	assert.Equal(t, ".omen", cfg.Semantic.IndexDirectory)
	assert.Equal(t, "search.db", cfg.Semantic.IndexFileName)
	assert.Equal(t, 0, cfg.Mutation.Workers)
	assert.Equal(t, "go build ./...", cfg.Mutation.BuildCommand)
	assert.Equal(t, "go test ./...", cfg.Mutation.TestCommand)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	configContent := `
server:
  port: 9000
  host: "127.0.0.1"

analysis:
  max_concurrent_analyses: 5

coupling:
  min_cochanges: 7

semantic:
  max_vocab: 500

cache:
  directory: "/tmp/test-cache"
`

	tmpDir := t.TempDir()

	tmpFile, err := os.CreateTemp(tmpDir, "test-config-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(configContent)
	require.NoError(t, writeErr)
	require.NoError(t, tmpFile.Close())

	cfg, loadErr := config.LoadConfig(tmpFile.Name())
	require.NoError(t, loadErr)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 5, cfg.Analysis.MaxConcurrentAnalyses)
	assert.Equal(t, 7, cfg.Coupling.MinCochanges)
	assert.Equal(t, 500, cfg.Semantic.MaxVocab)
	assert.Equal(t, "/tmp/test-cache", cfg.Cache.Directory)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("OMEN_SERVER_PORT", "9090")
	t.Setenv("OMEN_COUPLING_MIN_COCHANGES", "6")
	t.Setenv("OMEN_CACHE_DIRECTORY", "/tmp/env-cache")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Coupling.MinCochanges)
	assert.Equal(t, "/tmp/env-cache", cfg.Cache.Directory)
}

func TestValidateConfig_DefaultsArePassing(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestValidateConfig_RejectsInvalidPort(t *testing.T) {
	t.Parallel()

	configContent := "server:\n  port: 70000\n"

	tmpDir := t.TempDir()

	tmpFile, err := os.CreateTemp(tmpDir, "bad-port-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(configContent)
	require.NoError(t, writeErr)
	require.NoError(t, tmpFile.Close())

	_, loadErr := config.LoadConfig(tmpFile.Name())
	require.Error(t, loadErr)
	assert.ErrorIs(t, loadErr, config.ErrInvalidPort)
}

func TestValidateConfig_RejectsZeroMinCochanges(t *testing.T) {
	t.Parallel()

	configContent := "coupling:\n  min_cochanges: 0\n"

	tmpDir := t.TempDir()

	tmpFile, err := os.CreateTemp(tmpDir, "bad-coupling-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(configContent)
	require.NoError(t, writeErr)
	require.NoError(t, tmpFile.Close())

	_, loadErr := config.LoadConfig(tmpFile.Name())
	require.Error(t, loadErr)
	assert.ErrorIs(t, loadErr, config.ErrInvalidMinCochanges)
}

func TestTimeDurationParsing(t *testing.T) {
	t.Parallel()

	configContent := `
server:
  read_timeout: "15s"
  write_timeout: "30s"
  idle_timeout: "2m"

cache:
  cleanup_interval: "30m"

analysis:
  timeout: "1h"

mutation:
  timeout: "90s"
`

	tmpDir := t.TempDir()

	tmpFile, err := os.CreateTemp(tmpDir, "test-duration-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(configContent)
	require.NoError(t, writeErr)
	require.NoError(t, tmpFile.Close())

	cfg, loadErr := config.LoadConfig(tmpFile.Name())
	require.NoError(t, loadErr)

	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Server.IdleTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Cache.CleanupInterval)
	assert.Equal(t, time.Hour, cfg.Analysis.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Mutation.Timeout)
}
