package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds flowcanvas configuration.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Render RenderConfig `toml:"render"`
	Drafts DraftsConfig `toml:"drafts"`
	Log    LogConfig    `toml:"log"`
}

// EditorConfig controls the terminal editor.
type EditorConfig struct {
	// Canvas units covered by one terminal cell at zoom 1.
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
	LastDir    string  `toml:"last_dir"`
}

// RenderConfig controls image export.
type RenderConfig struct {
	FileType string  `toml:"file_type"` // "svg" or "png"
	Scale    float64 `toml:"scale"`
}

// DraftsConfig locates the draft list.
type DraftsConfig struct {
	Dir string `toml:"dir"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	File  string `toml:"file"`  // editor log file; empty means <config dir>/flowedit.log
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{CellWidth: 8, CellHeight: 16},
		Render: RenderConfig{FileType: "svg", Scale: 1},
		Log:    LogConfig{Level: "info"},
	}
}

// ConfigDir returns the flowcanvas config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flowcanvas")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DraftsDir returns the configured drafts directory or the default.
func (c *Config) DraftsDir() string {
	if c.Drafts.Dir != "" {
		return c.Drafts.Dir
	}
	return filepath.Join(ConfigDir(), "drafts")
}

// LogFile returns the configured editor log file or the default.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(ConfigDir(), "flowedit.log")
}

// Load reads the config file. A missing file yields the defaults; a
// malformed one yields the defaults and an error.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config from path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.sanitize()
	return cfg, nil
}

func (c *Config) sanitize() {
	d := Default()
	if c.Editor.CellWidth <= 0 {
		c.Editor.CellWidth = d.Editor.CellWidth
	}
	if c.Editor.CellHeight <= 0 {
		c.Editor.CellHeight = d.Editor.CellHeight
	}
	if c.Render.FileType != "svg" && c.Render.FileType != "png" {
		c.Render.FileType = d.Render.FileType
	}
	if c.Render.Scale <= 0 {
		c.Render.Scale = d.Render.Scale
	}
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil
	}
	return Save(Default())
}
