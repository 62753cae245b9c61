package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell_InvalidCapacity(t *testing.T) {
	rootCmd.SetArgs([]string{"shell", "--capacity", "0"})
	err := Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buffer.capacity must be positive")
}

func TestShell_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fdring.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o644))

	rootCmd.SetArgs([]string{"shell", "--config", path, "--capacity", "8"})
	err := Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log.format")
}

// A flag can repair a value the config file gets wrong.
func TestLoadConfig_FlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fdring.yaml")
	require.NoError(t, os.WriteFile(path, []byte("buffer:\n  capacity: 0\nlog:\n  level: debug\n"), 0o644))

	oldPath, oldCapacity := configPath, capacity
	t.Cleanup(func() { configPath, capacity = oldPath, oldCapacity })
	configPath = path

	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&capacity, "capacity", 0, "")
	require.NoError(t, cmd.Flags().Set("capacity", "16"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Buffer.Capacity)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = loadConfig(&cobra.Command{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buffer.capacity must be positive")
}
