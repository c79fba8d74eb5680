package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "windward.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `analysis:
  top_n: 3
  carryover_threshold: 2
  reference_date: "2026-02-19"
  workers: 4

graph:
  extra_keywords:
    - handover from
    - pending sign-off by

output:
  dir: artifacts
  formats:
    - table
    - markdown
    - json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Analysis.TopN)
	assert.Equal(t, 2, cfg.Analysis.CarryoverThreshold)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, []string{"handover from", "pending sign-off by"}, cfg.Graph.ExtraKeywords)
	assert.Equal(t, "artifacts", cfg.Output.Dir)
	assert.Equal(t, []string{"table", "markdown", "json"}, cfg.Output.Formats)

	want := time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
	assert.True(t, cfg.ReferenceTime().Equal(want))
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "analysis: {}\n"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.Equal(t, 3, cfg.Analysis.CarryoverThreshold)
	assert.Equal(t, 1, cfg.Analysis.Workers)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, []string{"table"}, cfg.Output.Formats)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{
			name:   "top_n negative",
			yaml:   "analysis:\n  top_n: -1\n",
			errMsg: "analysis.top_n must be at least 1",
		},
		{
			name:   "carryover threshold negative",
			yaml:   "analysis:\n  carryover_threshold: -2\n",
			errMsg: "analysis.carryover_threshold must be at least 1",
		},
		{
			name:   "workers negative",
			yaml:   "analysis:\n  workers: -4\n",
			errMsg: "analysis.workers must be at least 1",
		},
		{
			name:   "bad reference date",
			yaml:   "analysis:\n  reference_date: \"19/02/2026\"\n",
			errMsg: "analysis.reference_date must be YYYY-MM-DD",
		},
		{
			name:   "unknown output format",
			yaml:   "output:\n  formats:\n    - pdf\n",
			errMsg: `unknown output format "pdf"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadConfigRejectsNonYAMLPath(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "windward.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config path")
}

func TestLoadConfigBadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "analysis: [broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config YAML")
}

func TestZeroValueConfigUsable(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.False(t, cfg.ReferenceTime().IsZero())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.Equal(t, 1, cfg.Analysis.Workers)
	assert.Equal(t, []string{"table"}, cfg.Output.Formats)
}
