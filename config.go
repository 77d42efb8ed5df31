package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = ".txgraphrc.toml"

type Config struct {
	SaveDirectory string  `toml:"save_directory"`
	MaxFPS        int     `toml:"max_fps"`
	PixelRatio    float64 `toml:"pixel_ratio"`
	CellWidth     float64 `toml:"cell_width"`
	CellHeight    float64 `toml:"cell_height"`
	Debug         bool    `toml:"debug"`
	Theme         Theme   `toml:"theme"`
}

func defaultConfig() *Config {
	return &Config{
		MaxFPS:     defaultMaxFPS,
		PixelRatio: 1,
		CellWidth:  defaultCellWidth,
		CellHeight: defaultCellHeight,
		Theme:      defaultTheme(),
	}
}

// loadConfig reads ~/.txgraphrc.toml. A missing file or home directory
// gives the defaults. A file that does not parse gives the defaults and
// the error.
func loadConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig(), nil
	}
	return loadConfigFrom(filepath.Join(homeDir, configFileName), homeDir)
}

func loadConfigFrom(path, homeDir string) (*Config, error) {
	config := defaultConfig()

	if _, err := toml.DecodeFile(path, config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		return defaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}

	config.normalize(homeDir)
	return config, nil
}

func (c *Config) normalize(homeDir string) {
	if value := c.SaveDirectory; value != "" {
		if strings.HasPrefix(value, "~") {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
		if !filepath.IsAbs(value) {
			if absPath, err := filepath.Abs(value); err == nil {
				value = absPath
			}
		}
		c.SaveDirectory = value
	}

	defaults := defaultConfig()
	if c.MaxFPS <= 0 {
		c.MaxFPS = defaults.MaxFPS
	}
	if c.PixelRatio <= 0 {
		c.PixelRatio = defaults.PixelRatio
	}
	if c.CellWidth <= 0 {
		c.CellWidth = defaults.CellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = defaults.CellHeight
	}

	theme := &c.Theme
	for _, field := range []struct {
		value *string
		def   string
	}{
		{&theme.Line, defaults.Theme.Line},
		{&theme.Hover, defaults.Theme.Hover},
		{&theme.Text, defaults.Theme.Text},
		{&theme.Connector, defaults.Theme.Connector},
		{&theme.Label, defaults.Theme.Label},
		{&theme.Background, defaults.Theme.Background},
	} {
		if *field.value == "" {
			*field.value = field.def
		}
	}
}

// GetSavePath places filename in the save directory, creating it if needed.
func (c *Config) GetSavePath(filename string) (string, error) {
	if c.SaveDirectory == "" {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0755); err != nil {
		return "", fmt.Errorf("save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}
