package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/atdiar/uistate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "uistate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "log_level: debug\nstore_dir: /tmp/snaps\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/snaps", cfg.StoreDir)
	assert.True(t, cfg.PrettyHTML, "missing fields keep their default")

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "log_level: [\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "log_level: loud\n"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	prev := ui.AssertionsEnabled
	t.Cleanup(func() {
		ui.AssertionsEnabled = prev
		ui.SetLogger(nil)
	})

	cfg := Default()
	cfg.Assertions = true
	require.NoError(t, cfg.Apply())
	assert.True(t, ui.AssertionsEnabled)

	cfg.LogLevel = "nope"
	assert.Error(t, cfg.Apply())
}
