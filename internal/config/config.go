// Package config loads the belso.toml file read by the CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = "belso.toml"

// Config mirrors belso.toml:
//
//	[translate]
//	to = "openai"
//	from = "google"
//	root_prefix = "My"
//
//	[output]
//	indent = "  "
//
//	[log]
//	level = "info"   # debug, info, warn, error
//	format = "text"  # text, json
//
//	[display]
//	color = "auto"   # auto, on, off
type Config struct {
	Translate Translate `toml:"translate"`
	Output    Output    `toml:"output"`
	Log       Log       `toml:"log"`
	Display   Display   `toml:"display"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

type Translate struct {
	To         string `toml:"to"`
	From       string `toml:"from"`
	RootPrefix string `toml:"root_prefix"`
}

type Output struct {
	Indent *string `toml:"indent"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Display struct {
	Color string `toml:"color"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Log:     Log{Level: "warn", Format: "text"},
		Display: Display{Color: "auto"},
	}
}

// Find walks up from startDir looking for belso.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads the file at path, or discovers belso.toml from the working
// directory when path is empty. A missing discovered file yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		found, ok, err := Find(".")
		if err != nil {
			return Config{}, err
		}
		if !ok {
			return Default(), nil
		}
		path = found
	}
	return Read(path)
}

// Read parses the config file at path over the defaults.
func Read(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	switch strings.ToLower(c.Display.Color) {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("display.color: unknown mode %q", c.Display.Color)
	}
	return nil
}

// SlogLevel maps the level name onto slog.
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelWarn, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
