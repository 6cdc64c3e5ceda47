package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const defaultServer = "http://localhost:8080"

// Config is the terminal client's configuration.
// Precedence: flags, then GENIUS_* env vars, then config.toml, then defaults.
type Config struct {
	// Server is the base URL of the Genius server
	Server string `toml:"server"`
	// Token is a Clerk session token sent as the bearer
	Token string `toml:"token"`
	// Markdown renders replies with glamour; plain text otherwise
	Markdown bool `toml:"markdown"`
	// WordWrap is the markdown wrap width
	WordWrap int `toml:"word_wrap"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:   defaultServer,
		Markdown: true,
		WordWrap: 80,
	}
}

// Validate implements validation.Validatable
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server, validation.Required, is.URL),
		validation.Field(&c.WordWrap, validation.Min(20)),
	)
}

// ConfigDir returns the genius configuration directory.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine config directory: %w", err)
	}
	return filepath.Join(dir, "genius"), nil
}

// ConfigPath returns the path of config.toml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads path over the defaults and applies env overrides.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	cfg.Server = strings.TrimRight(cfg.Server, "/")
	return cfg, nil
}

// SaveConfig writes cfg to path with owner-only permissions.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GENIUS_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("GENIUS_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("GENIUS_MARKDOWN"); v != "" {
		cfg.Markdown = v != "0" && v != "false"
	}
}
