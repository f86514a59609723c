// Package config loads and writes relgraph's TOML configuration file.
//
// A configuration file holds the canvas size, every layout tunable, the
// edge bundling options and the log level:
//
//	[canvas]
//	width = 1000
//	height = 800
//
//	[layout.force]
//	min_spacing = 50
//
//	[bundle]
//	iterations = 60
//
//	[log]
//	level = "debug"
//
// Keys that are absent keep their defaults, so a file only needs to name
// what it changes.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	rerrors "github.com/matzehuels/relgraph/pkg/errors"
	"github.com/matzehuels/relgraph/pkg/layout"
)

const (
	appName  = "relgraph"
	fileName = "config.toml"
)

// File is the on-disk configuration.
type File struct {
	Canvas CanvasConfig         `toml:"canvas"`
	Layout layout.Config        `toml:"layout"`
	Bundle layout.BundleOptions `toml:"bundle"`
	Log    LogConfig            `toml:"log"`
}

// CanvasConfig is the default canvas a layout is computed for.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Bounds returns the canvas as layout bounds.
func (c CanvasConfig) Bounds() layout.Bounds {
	return layout.Bounds{Width: c.Width, Height: c.Height}
}

// Default returns the built-in configuration.
func Default() *File {
	return &File{
		Canvas: CanvasConfig{Width: 1000, Height: 800},
		Layout: layout.DefaultConfig(),
		Bundle: layout.DefaultBundleOptions(),
		Log:    LogConfig{Level: "info"},
	}
}

// Dir returns the configuration directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, ".config", appName)
}

// DefaultPath returns the path of the user configuration file.
func DefaultPath() string {
	return filepath.Join(Dir(), fileName)
}

// Load reads the configuration at path over the defaults.
//
// An empty path means [DefaultPath]; if that file does not exist the
// defaults are returned. An explicit path that does not exist is a
// FILE_NOT_FOUND error. Unknown keys and out-of-range values are
// INVALID_CONFIG errors.
func Load(path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, rerrors.Wrap(rerrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*File, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, rerrors.New(rerrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (f *File) Validate() error {
	if err := rerrors.ValidateBounds(f.Canvas.Width, f.Canvas.Height); err != nil {
		return err
	}
	if err := f.Layout.Validate(); err != nil {
		return err
	}
	if err := f.Bundle.Validate(); err != nil {
		return err
	}
	if _, err := f.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level. An empty level means info.
func (f *File) LogLevel() (log.Level, error) {
	if f.Log.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(f.Log.Level)
	if err != nil {
		return 0, rerrors.Wrap(rerrors.ErrCodeInvalidConfig, err, "log.level %q", f.Log.Level)
	}
	return lvl, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *File) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
