// Package config loads auraflow settings from flags, environment, an optional
// YAML file and a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/stigoleg/auraflow/internal/util"
)

// EnvPrefix is prepended to every environment variable, e.g.
// AURAFLOW_IDLE_THRESHOLD for idle_threshold.
const EnvPrefix = "AURAFLOW"

// Keys shared by flags, the config file and the environment.
const (
	KeyConfig         = "config"
	KeyIdleThreshold  = "idle_threshold"
	KeyJiggleInterval = "jiggle_interval"
	KeyBackend        = "backend"
	KeyHeadless       = "headless"
	KeyAutostart      = "autostart"
	KeyDuration       = "duration"
	KeyClock          = "clock"
	KeyLogFile        = "log_file"
	KeyMetricsAddr    = "metrics_addr"
)

// Config is the resolved startup configuration. Threshold and interval stay
// strings until Settings parses them so both "120" and "2m" are accepted.
type Config struct {
	IdleThreshold  string `mapstructure:"idle_threshold"`
	JiggleInterval string `mapstructure:"jiggle_interval"`
	// Backend is one of pointer.Backends().
	Backend   string `mapstructure:"backend"`
	Headless  bool   `mapstructure:"headless"`
	Autostart bool   `mapstructure:"autostart"`
	// Duration and Clock bound an automatically started session; at most
	// one may be set.
	Duration    string `mapstructure:"duration"`
	Clock       string `mapstructure:"clock"`
	LogFile     string `mapstructure:"log_file"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		IdleThreshold:  "120",
		JiggleInterval: "60",
		Backend:        "auto",
		LogFile:        "debug.log",
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault(KeyIdleThreshold, defaults.IdleThreshold)
	v.SetDefault(KeyJiggleInterval, defaults.JiggleInterval)
	v.SetDefault(KeyBackend, defaults.Backend)
	v.SetDefault(KeyHeadless, defaults.Headless)
	v.SetDefault(KeyAutostart, defaults.Autostart)
	v.SetDefault(KeyDuration, defaults.Duration)
	v.SetDefault(KeyClock, defaults.Clock)
	v.SetDefault(KeyLogFile, defaults.LogFile)
	v.SetDefault(KeyMetricsAddr, defaults.MetricsAddr)
}

// Init prepares v: defaults, environment binding and the config file. A
// missing default config file is fine; a missing explicit one is an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Headless || cfg.Duration != "" || cfg.Clock != "" {
		cfg.Autostart = true
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

// Settings parses the idle threshold and jiggle interval in seconds.
func (c *Config) Settings() (idleThreshold, jiggleInterval uint64, err error) {
	idleThreshold, err = util.ParseSeconds(c.IdleThreshold)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", KeyIdleThreshold, err)
	}
	jiggleInterval, err = util.ParseSeconds(c.JiggleInterval)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", KeyJiggleInterval, err)
	}
	return idleThreshold, jiggleInterval, nil
}

// SessionLength returns how long a timed session should last, or 0 for an
// indefinite one.
func (c *Config) SessionLength(now time.Time) (time.Duration, error) {
	switch {
	case c.Duration != "":
		return util.ParseDuration(c.Duration)
	case c.Clock != "":
		return util.Until(c.Clock, now)
	default:
		return 0, nil
	}
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "auraflow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".auraflow"
	}
	return filepath.Join(home, ".config", "auraflow")
}
