package sweep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, cfg.Sizes())
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"zero bits", func(c *Config) { c.Bits = 0 }, "bits"},
		{"too many bits", func(c *Config) { c.Bits = 65 }, "bits"},
		{"negative min", func(c *Config) { c.MinTags = -1 }, "min_tags"},
		{"max below min", func(c *Config) { c.MinTags = 50; c.MaxTags = 40 }, "max_tags"},
		{"zero step", func(c *Config) { c.Step = 0 }, "step"},
		{"zero trials", func(c *Config) { c.Trials = 0 }, "trials"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"space too small", func(c *Config) { c.Bits = 4; c.MaxTags = 20 }, "exceeds the 16 identifiers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestConfig_Sizes_SinglePoint(t *testing.T) {
	cfg := Config{MinTags: 7, MaxTags: 7, Step: 5}
	assert.Equal(t, []int{7}, cfg.Sizes())
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	// GIVEN a file that only sets trials and max_tags
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trials: 5\nmax_tags: 40\n"), 0o644))

	// WHEN loaded
	cfg, err := LoadConfig(path)

	// THEN the rest keeps its defaults
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Trials)
	assert.Equal(t, 40, cfg.MaxTags)
	assert.Equal(t, 32, cfg.Bits)
	assert.Equal(t, 10, cfg.Step)
}

func TestLoadConfig_UnknownKey_Rejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trails: 5\n"), 0o644))

	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing sweep config")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
