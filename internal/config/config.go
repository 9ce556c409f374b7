package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultLogLevel      = "warn"
	defaultCacheSize     = 0
	defaultWidthFraction = 0.5
	defaultTopFraction   = 0.33
)

// Config holds everything decided once at startup.
type Config struct {
	Root          string  `yaml:"-"`
	FdCommand     string  `yaml:"fd_command"`
	FzfCommand    string  `yaml:"fzf_command"`
	LogLevel      string  `yaml:"log_level"`
	LogFile       string  `yaml:"log_file"`
	CacheSize     int     `yaml:"cache_size"`
	WidthFraction float64 `yaml:"width_fraction"`
	TopFraction   float64 `yaml:"top_fraction"`
}

// Default returns the built-in configuration rooted at the working directory.
func Default() Config {
	return Config{
		Root:          ".",
		FdCommand:     "fd",
		FzfCommand:    "fzf",
		LogLevel:      defaultLogLevel,
		CacheSize:     defaultCacheSize,
		WidthFraction: defaultWidthFraction,
		TopFraction:   defaultTopFraction,
	}
}

// RootFromArgs returns the search root from the command line: the first
// positional argument, or "." when none is given.
func RootFromArgs(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return "."
	}
	return args[0]
}

// Load builds the configuration from defaults, the YAML file and the
// environment, in increasing precedence.
func Load(root string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Default()
	if root != "" {
		cfg.Root = root
	}
	cfg.LogFile = defaultLogFile(getenv)

	if path := configPath(getenv); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the overlay cannot work with.
func (c Config) Validate() error {
	if c.Root == "" {
		return errors.New("search root must not be empty")
	}
	if c.WidthFraction <= 0 || c.WidthFraction > 1 {
		return fmt.Errorf("width_fraction must be in (0, 1], got %v", c.WidthFraction)
	}
	if c.TopFraction < 0 || c.TopFraction >= 1 {
		return fmt.Errorf("top_fraction must be in [0, 1), got %v", c.TopFraction)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("PLUCK_FD")); v != "" {
		cfg.FdCommand = v
	}
	if v := strings.TrimSpace(getenv("PLUCK_FZF")); v != "" {
		cfg.FzfCommand = v
	}
	if v := strings.TrimSpace(getenv("PLUCK_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(getenv("PLUCK_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(getenv("PLUCK_CACHE_SIZE")); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PLUCK_CACHE_SIZE: %w", err)
		}
		cfg.CacheSize = size
	}
	return nil
}

func configPath(getenv func(string) string) string {
	if path := getenv("PLUCK_CONFIG"); path != "" {
		return path
	}
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "pluck", "config.yaml")
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "pluck", "config.yaml")
	}
	return ""
}

func defaultLogFile(getenv func(string) string) string {
	if dir := getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "pluck", "pluck.log")
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "state", "pluck", "pluck.log")
	}
	return ""
}
