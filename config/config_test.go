package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"simfuzz/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
module:
  addr: 10.0.0.5
  port: 4242
campaign:
  log_level: trace
  faults: [-1, 13, 14]
  timeout: 2.5
iterations: 1000
max_input_size: 4096
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Module.Addr)
	assert.Equal(t, uint16(4242), cfg.Module.Port)
	assert.Equal(t, "trace", cfg.Campaign.LogLevel)
	assert.Equal(t, []entities.Fault{-1, 13, 14}, cfg.Campaign.Faults)
	assert.Equal(t, 2500*time.Millisecond, cfg.Campaign.Timeout())
	assert.Equal(t, uint64(1000), cfg.Iterations)
	assert.Equal(t, 4096, cfg.MaxInputSize)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
module:
  port: 9001
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Module.Addr)
	assert.Equal(t, "info", cfg.Campaign.LogLevel)
	assert.Equal(t, 1024, cfg.MaxInputSize)
	assert.Zero(t, cfg.Iterations)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero port":          "module:\n  port: 0\n",
		"empty addr":         "module:\n  addr: \"\"\n  port: 9001\n",
		"negative timeout":   "module:\n  port: 9001\ncampaign:\n  timeout: -1\n",
		"zero input size":    "module:\n  port: 9001\nmax_input_size: -5\n",
		"not yaml":           "{{{{",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
