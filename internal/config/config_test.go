package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gYonder/tsh/internal/config"
	"github.com/gYonder/tsh/internal/history"
	"github.com/gYonder/tsh/internal/jobtable"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "auto", cfg.Theme)
	assert.Equal(t, history.DefaultCapacity, cfg.HistorySize)
	assert.Equal(t, jobtable.DefaultCapacity, cfg.JobTableSize)
}

func TestConfigPath(t *testing.T) {
	path, err := config.ConfigPath()
	require.NoError(t, err)
	assert.Contains(t, path, ".tsh/config.yaml")
}

func TestHistoryPath(t *testing.T) {
	path, err := config.HistoryPath()
	require.NoError(t, err)
	assert.Contains(t, path, ".tsh/history")
}

func TestLoad_EnvOverrides(t *testing.T) {
	require.NoError(t, os.Setenv("TSH_HISTSIZE", "250"))
	require.NoError(t, os.Setenv("TSH_JOBS_MAX", "32"))
	defer os.Unsetenv("TSH_HISTSIZE")
	defer os.Unsetenv("TSH_JOBS_MAX")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.HistorySize)
	assert.Equal(t, 32, cfg.JobTableSize)
}

func TestLoad_IgnoresInvalidEnvOverrides(t *testing.T) {
	require.NoError(t, os.Setenv("TSH_HISTSIZE", "not-a-number"))
	defer os.Unsetenv("TSH_HISTSIZE")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, history.DefaultCapacity, cfg.HistorySize)
}

func TestBookmarkFilePath_FallsBackToDefault(t *testing.T) {
	cfg := config.Default()
	assert.NotEmpty(t, cfg.BookmarkFilePath())
}
