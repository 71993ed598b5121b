package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/rbtree/internal/config"
)

// writeConfigFile marshals the given document to a YAML file under a
// test temp dir and returns its path.
func writeConfigFile(tb testing.TB, doc map[string]any) string {
	tb.Helper()

	contents, err := yaml.Marshal(doc)
	require.NoError(tb, err)

	path := filepath.Join(tb.TempDir(), "rbstress.yaml")
	require.NoError(tb, os.WriteFile(path, contents, 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err, "explicit missing config file is an error")

	cfg, err = config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.BackendArena, cfg.Backend)
	assert.Equal(t, config.DefaultStressCount, cfg.Stress.Count)
	assert.Equal(t, uint32(config.DefaultStressSeed), cfg.Stress.Seed)
	assert.Equal(t, config.DefaultStressValidateEvery, cfg.Stress.ValidateEvery)
	assert.Equal(t, config.DefaultSweepSpan, cfg.Sweep.Span)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, map[string]any{
		"backend": "heap",
		"stress": map[string]any{
			"count":          5000,
			"seed":           17,
			"validate_every": 1000,
		},
		"sweep": map[string]any{
			"span": 2000,
		},
	})

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, config.BackendHeap, cfg.Backend)
	assert.Equal(t, 5000, cfg.Stress.Count)
	assert.Equal(t, uint32(17), cfg.Stress.Seed)
	assert.Equal(t, 1000, cfg.Stress.ValidateEvery)
	assert.Equal(t, 2000, cfg.Sweep.Span)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, map[string]any{"backend": "heap"})

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, config.BackendHeap, cfg.Backend)
	assert.Equal(t, config.DefaultStressCount, cfg.Stress.Count)
	assert.Equal(t, config.DefaultSweepSpan, cfg.Sweep.Span)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("RBSTRESS_BACKEND", "heap")
	t.Setenv("RBSTRESS_STRESS_COUNT", "123")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.BackendHeap, cfg.Backend)
	assert.Equal(t, 123, cfg.Stress.Count)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, map[string]any{"backend": "flash"})

	_, err := config.LoadConfig(path)
	require.ErrorIs(t, err, config.ErrUnknownBackend)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := config.Config{
		Backend: config.BackendArena,
		Stress:  config.StressConfig{Count: 1, Seed: 1},
		Sweep:   config.SweepConfig{Span: 10},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{"unknown backend", func(c *config.Config) { c.Backend = "disk" }, config.ErrUnknownBackend},
		{"zero count", func(c *config.Config) { c.Stress.Count = 0 }, config.ErrNonPositiveCount},
		{"negative count", func(c *config.Config) { c.Stress.Count = -5 }, config.ErrNonPositiveCount},
		{"count overflows arena", func(c *config.Config) { c.Stress.Count = 1 << 32 }, config.ErrCountOverflowsArena},
		{"zero span", func(c *config.Config) { c.Sweep.Span = 0 }, config.ErrNonPositiveSpan},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), tc.wantErr)
		})
	}
}
