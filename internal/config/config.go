package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix = "TABPROBE"
	dirName   = ".tabprobe"
)

// Global configuration structure.
type Global struct {
	ProjectsDir   string `mapstructure:"projects_dir" yaml:"projects_dir"`
	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`

	// Loader defaults; flags override these per invocation.
	MaxRows            int    `mapstructure:"max_rows" yaml:"max_rows"`
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"projects_dir", "default_format", "log_level",
	"max_rows", "delimiter", "decimal_separator", "thousands_separator",
}

// Dir returns ~/.tabprobe.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabprobe/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("projects_dir", "")
	v.SetDefault("default_format", "markdown")
	v.SetDefault("log_level", "warn")
	v.SetDefault("max_rows", 0)
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	dir, err := c.ProjectsRoot()
	if err != nil {
		return nil, err
	}
	c.ProjectsDir = dir
	return &c, nil
}

// ProjectsRoot expands a leading ~ in ProjectsDir, defaulting to
// ~/.tabprobe/projects when unset.
func (c *Global) ProjectsRoot() (string, error) {
	dir := strings.TrimSpace(c.ProjectsDir)
	if dir == "" {
		base, err := Dir()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, "projects"), nil
	}
	if rest, ok := strings.CutPrefix(dir, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, strings.TrimLeft(rest, `/\`))
	}
	return filepath.Clean(dir), nil
}

// Set assigns a single key from its string form.
func (c *Global) Set(key, value string) error {
	switch key {
	case "projects_dir":
		c.ProjectsDir = value
	case "default_format":
		c.DefaultFormat = value
	case "log_level":
		c.LogLevel = value
	case "max_rows":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return fmt.Errorf("max_rows must be a non-negative integer, got %q", value)
		}
		c.MaxRows = n
	case "delimiter":
		c.Delimiter = value
	case "decimal_separator":
		c.DecimalSeparator = value
	case "thousands_separator":
		c.ThousandsSeparator = value
	default:
		return fmt.Errorf("unknown key %q (known: %v)", key, Keys)
	}
	return nil
}

// Get returns the string form of a key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "projects_dir":
		return c.ProjectsDir, nil
	case "default_format":
		return c.DefaultFormat, nil
	case "log_level":
		return c.LogLevel, nil
	case "max_rows":
		return strconv.Itoa(c.MaxRows), nil
	case "delimiter":
		return c.Delimiter, nil
	case "decimal_separator":
		return c.DecimalSeparator, nil
	case "thousands_separator":
		return c.ThousandsSeparator, nil
	}
	return "", fmt.Errorf("unknown key %q (known: %v)", key, Keys)
}
