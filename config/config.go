// Package config loads the settings of the uistate tools from YAML.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/atdiar/uistate"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the uistate tools.
type Config struct {
	LogLevel   string `yaml:"log_level"`
	Assertions bool   `yaml:"assertions"`
	StoreDir   string `yaml:"store_dir"`
	PrettyHTML bool   `yaml:"pretty_html"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:   "warn",
		Assertions: ui.AssertionsEnabled,
		StoreDir:   ".uistate",
		PrettyHTML: true,
	}
}

// Load reads the configuration file at path. Fields missing from the file
// keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config file")
	}
	if _, err := cfg.Level(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return l, errors.Wrapf(err, "log level %q", c.LogLevel)
	}
	return l, nil
}

// Apply installs the logger and assertion mode described by c.
func (c Config) Apply() error {
	level, err := c.Level()
	if err != nil {
		return err
	}
	ui.SetLogger(ui.NewDefaultLogger(level))
	ui.AssertionsEnabled = c.Assertions
	return nil
}
