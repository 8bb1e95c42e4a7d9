// ABOUTME: User config loading for the codepac store
// ABOUTME: Reads config.toml with sensible defaults when absent
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config controls where the store lives on disk.
type Config struct {
	// StoreDir is the root directory holding the database and mirrors.
	StoreDir string `toml:"store_dir"`

	// FetchDir is where `pac get` replicates package contents.
	FetchDir string `toml:"fetch_dir"`

	// DefaultAuthor is used for new packages when no author is given.
	DefaultAuthor string `toml:"default_author"`
}

// DBPath returns the path of the embedded database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.StoreDir, "codepac.db")
}

// Default returns the config used when no config file exists.
func Default() *Config {
	return &Config{
		StoreDir: filepath.Join(GetDataHome(), "codepac"),
		FetchDir: "pacs",
	}
}

// Load reads config.toml from the XDG config directory.
// A missing file is not an error; defaults are returned.
func Load() (*Config, error) {
	path := filepath.Join(GetConfigHome(), "codepac", "config.toml")
	return LoadFile(path)
}

// LoadFile reads a config file from path, applying defaults first.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	// An emptied-out field falls back to the default rather than
	// pointing the store at the current directory.
	if cfg.StoreDir == "" {
		cfg.StoreDir = Default().StoreDir
	}
	if cfg.FetchDir == "" {
		cfg.FetchDir = Default().FetchDir
	}

	return cfg, nil
}
