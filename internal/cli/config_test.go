package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GENIUS_SERVER", "")
	t.Setenv("GENIUS_TOKEN", "")
	t.Setenv("GENIUS_MARKDOWN", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultServer, cfg.Server)
	assert.True(t, cfg.Markdown)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("server = \"https://genius.example/\"\ntoken = \"from-file\"\nmarkdown = false\n"), 0o600))

	t.Setenv("GENIUS_SERVER", "")
	t.Setenv("GENIUS_MARKDOWN", "")
	t.Setenv("GENIUS_TOKEN", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://genius.example", cfg.Server)
	assert.Equal(t, "from-env", cfg.Token)
	assert.False(t, cfg.Markdown)
}

func TestLoadConfig_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("server = "), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server = "not a url"
	assert.Error(t, cfg.Validate())
}

func TestSaveConfig(t *testing.T) {
	t.Setenv("GENIUS_TOKEN", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Token = "tok"
	require.NoError(t, SaveConfig(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token)
}
