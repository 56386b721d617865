package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Engine.Decimals)
	assert.Equal(t, int64(256<<20), cfg.Engine.MaxUploadBytes)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentUploads)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	require.Len(t, cfg.Classify.Colors, 5)
	require.Len(t, cfg.Classify.Labels, 5)
	assert.Equal(t, "#2C7BB6", cfg.Classify.Colors[0])
	assert.Equal(t, "Very High", cfg.Classify.Labels[4])
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ATLAS_ENGINE_DECIMALS", "3")
	t.Setenv("ATLAS_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Engine.Decimals)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	require.Error(t, err)
}
