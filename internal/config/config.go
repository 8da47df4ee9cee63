package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds manager configuration stored at ~/.skymanager/config.
type Config struct {
	HypervisorURL   string        `yaml:"hypervisor_url" validate:"required,url"`
	DiscoveryURL    string        `yaml:"discovery_url" validate:"omitempty,url"`
	Visor           string        `yaml:"visor,omitempty" validate:"omitempty,len=66,hexadecimal"`
	ShortPageSize   int           `yaml:"short_page_size" validate:"gte=1,ltefield=FullPageSize"`
	FullPageSize    int           `yaml:"full_page_size" validate:"gte=1,lte=1000"`
	RetryDelay      time.Duration `yaml:"retry_delay" validate:"gte=100ms"`
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gte=1s"`
	StorePath       string        `yaml:"store_path" validate:"required"`
	LogFile         string        `yaml:"log_file"`
	LogLevel        string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	VimKeys         bool          `yaml:"vim_keys"`
	ContinueOnError bool          `yaml:"continue_on_error"`
}

var validate = validator.New()

// Dir returns the directory holding the config, store and log.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".skymanager")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		HypervisorURL:  "http://localhost:8000",
		DiscoveryURL:   "http://service.discovery.skycoin.com",
		ShortPageSize:  5,
		FullPageSize:   40,
		RetryDelay:     3 * time.Second,
		RequestTimeout: 30 * time.Second,
		StorePath:      filepath.Join(Dir(), "store.db"),
		LogFile:        filepath.Join(Dir(), "manager.log"),
		LogLevel:       "info",
		VimKeys:        true,
	}
}

// Load reads the config file over the defaults. A missing file yields the
// defaults; an insecure or invalid file is an error.
func Load() (*Config, error) {
	path := Path()
	cfg := Default()

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.StorePath = expandHome(cfg.StorePath)
	cfg.LogFile = expandHome(cfg.LogFile)
	cfg.HypervisorURL = strings.TrimRight(strings.TrimSpace(cfg.HypervisorURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save validates and writes the config to disk with secure permissions.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
