package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/routine/internal/utils"
)

const (
	FileName = "routine.yml"

	BackendTray = "tray"
	BackendLog  = "log"
)

// Config models routine.yml. Every field is optional; zero values fall back to
// command line flags and built-in defaults.
type Config struct {
	Storage  string `yaml:"storage"`
	Timezone string `yaml:"timezone"`
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`
	Serve    struct {
		Reminders      string        `yaml:"reminders"`
		ReloadInterval time.Duration `yaml:"reload_interval"`
		CheckSpec      string        `yaml:"check_spec"`
	} `yaml:"serve"`
}

// Default returns the config a missing file stands for.
func Default() *Config {
	cfg := &Config{}
	cfg.Serve.Reminders = BackendTray
	cfg.Serve.ReloadInterval = time.Minute
	cfg.Serve.CheckSpec = "0 5 0 * * *"
	return cfg
}

// Path returns the config file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Validate ensures the values are usable.
func (c *Config) Validate() error {
	if c.Timezone != "" && !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("config.timezone %q is not a valid IANA timezone", c.Timezone)
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config.log_level %q is not a log level", c.LogLevel)
		}
	}
	switch c.Serve.Reminders {
	case BackendTray, BackendLog:
	default:
		return fmt.Errorf("config.serve.reminders must be %q or %q", BackendTray, BackendLog)
	}
	if c.Serve.ReloadInterval < time.Second {
		return fmt.Errorf("config.serve.reload_interval must be at least 1s")
	}
	if c.Serve.CheckSpec == "" {
		return fmt.Errorf("config.serve.check_spec is required")
	}
	return nil
}

// FromYAML parses and validates config from raw YAML bytes on top of the defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional returns the defaults if the file does not exist.
func LoadOptional(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// WriteDefault writes the commented default file unless one already exists.
// It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0600); err != nil {
		return false, err
	}
	return true, nil
}

const defaultTemplate = `# routine configuration
#
# storage: path to a .json or .db file, or a postgres:// URL without a password
# storage: ~/.config/routine/routine.db
# timezone: Europe/Berlin
debug: false
# log_level: debug, info, warn or error
log_level: info

serve:
  # tray posts reminders to the tray app, log only writes them to the log
  reminders: tray
  reload_interval: 1m
  # cron spec (with seconds) for the weekly reset and reward check
  check_spec: "0 5 0 * * *"
`
