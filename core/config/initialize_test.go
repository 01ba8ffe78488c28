package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitialize(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg, err := Initialize(fs, "/etc/gatesh", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	t.Run("writes default file", func(t *testing.T) {
		contents, err := afero.ReadFile(fs, "/etc/gatesh/config.yaml")
		assert.Nil(t, err)
		assert.Equal(t, DefaultYAML(), contents)
	})

	t.Run("keeps existing file", func(t *testing.T) {
		custom := []byte("limits:\n  max_pipeline_length: 2\n")
		require.NoError(t, afero.WriteFile(fs, "/etc/gatesh/config.yaml", custom, 0600))

		cfg, err := Initialize(fs, "/etc/gatesh", zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Limits.MaxPipelineLength)
	})

	t.Run("load by file path", func(t *testing.T) {
		cfg, err := Load(fs, "/etc/gatesh/config.yaml")
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Limits.MaxPipelineLength)
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv(EnvRubyPath, "ruby3")

	cfg, err := LoadOrDefault(afero.NewMemMapFs(), "/missing")
	require.NoError(t, err)
	assert.Equal(t, "ruby3", cfg.Interpreters.RubyPath)
	assert.Equal(t, Default().Security, cfg.Security)
}

func TestLoadOrDefault_invalidFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/config.yaml", []byte("limits: [1, 2]"), 0600))

	_, err := LoadOrDefault(fs, "/cfg")
	assert.Error(t, err)
}
