package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Profile ProfileConfig
	API     APIConfig
	Log     LogConfig
	UI      UIConfig
}

// ProfileConfig names the subject shown by the stats widget.
type ProfileConfig struct {
	Handle string
}

// APIConfig holds statistics endpoint settings.
type APIConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	Timeout              time.Duration `mapstructure:"timeout"`
	CheckHistoricHandles bool          `mapstructure:"check_historic_handles"`
}

// LogConfig holds zap settings. Logs go to a file because the TUI owns the
// terminal; an empty File disables logging.
type LogConfig struct {
	Level  string
	File   string
	Format string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	MessagesDir string `mapstructure:"messages_dir"`
}

const envPrefix = "PORTFOLIO"

func defaultDir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "portfolio")
}

// Path returns the config file location honoring PORTFOLIO_CONFIG.
func Path() string {
	if p := os.Getenv("PORTFOLIO_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(defaultDir(), "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("profile.handle", "ShonenDev")
	v.SetDefault("api.base_url", "https://codeforces.com")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.check_historic_handles", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.format", "console")
	v.SetDefault("ui.messages_dir", "")
}

// Load reads configuration from file and env. Env var overrides use prefix PORTFOLIO_.
func Load() (Config, error) {
	return LoadFile(os.Getenv("PORTFOLIO_CONFIG"))
}

// LoadFile is Load with an explicit config file; an empty path searches the
// default config directory. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(defaultDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Profile.Handle = strings.TrimSpace(c.Profile.Handle)
	return c, nil
}

// Validate reports settings the widget cannot run with.
func (c Config) Validate() error {
	if c.Profile.Handle == "" {
		return errors.New("profile.handle is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute url", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	return nil
}

// Save writes cfg to path (Path() when empty), creating the directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("profile.handle", cfg.Profile.Handle)
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.check_historic_handles", cfg.API.CheckHistoricHandles)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.format", cfg.Log.Format)
	v.Set("ui.messages_dir", cfg.UI.MessagesDir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
