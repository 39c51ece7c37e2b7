package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	defaultServer         = "http://localhost:8374"
	defaultGitHubOwner    = "joshribakoff"
	defaultReconnectDelay = 5 * time.Second
	defaultRequestTimeout = 10 * time.Second
	defaultBackend        = "file"
	defaultLogLevel       = "info"
	defaultTheme          = "catppuccin-mocha"
)

type Config struct {
	Server         string        `mapstructure:"server"`
	GitHubOwner    string        `mapstructure:"github_owner"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	State          StateConfig   `mapstructure:"state"`
	Log            LogConfig     `mapstructure:"log"`
	Theme          string        `mapstructure:"theme"`
}

type StateConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Dir     string `mapstructure:"dir" yaml:"dir,omitempty"`
}

type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file,omitempty"`
	Level string `mapstructure:"level" yaml:"level"`
}

func Default() *Config {
	return &Config{
		Server:         defaultServer,
		GitHubOwner:    defaultGitHubOwner,
		ReconnectDelay: defaultReconnectDelay,
		RequestTimeout: defaultRequestTimeout,
		State:          StateConfig{Backend: defaultBackend},
		Log:            LogConfig{Level: defaultLogLevel},
		Theme:          defaultTheme,
	}
}

// Loader wraps the viper instance so the CLI can bind flags into it and the
// dashboard can watch the file it came from.
type Loader struct {
	v    *viper.Viper
	dirs []string
}

// configNames is the lookup order within each directory; TOML is only a fallback.
var configNames = []string{"config.yaml", "config.yml", "config.toml"}

func NewLoader() *Loader {
	v := viper.New()
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "bearing"))
	}
	dirs = append(dirs, filepath.Join(os.Getenv("HOME"), ".config", "bearing"))

	v.SetEnvPrefix("bearing")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server", defaultServer)
	v.SetDefault("github_owner", defaultGitHubOwner)
	v.SetDefault("reconnect_delay", defaultReconnectDelay)
	v.SetDefault("request_timeout", defaultRequestTimeout)
	v.SetDefault("state.backend", defaultBackend)
	v.SetDefault("state.dir", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("theme", defaultTheme)
	return &Loader{v: v, dirs: dirs}
}

// locate returns the first existing config file, YAML before TOML in each directory.
func (l *Loader) locate() string {
	for _, dir := range l.dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// Viper exposes the underlying instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads config.yaml, or config.toml when no YAML file exists. A missing file is
// not an error.
func (l *Loader) Load() (*Config, error) {
	if path := l.locate(); path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	cfg := Default()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	cfg.Server = strings.TrimRight(cfg.Server, "/")
	return cfg, nil
}

// File is the config file in use, or "" when running on defaults.
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Watch calls onChange with the reloaded config whenever the file changes. It is a
// no-op when no file was loaded.
func (l *Loader) Watch(onChange func(*Config, error)) {
	if l.File() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(l.decode())
	})
	l.v.WatchConfig()
}

// Load reads the config with no flag overrides.
func Load() (*Config, error) {
	return NewLoader().Load()
}

// Path is where `config init` writes the default file.
func Path() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bearing", "config.yaml")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "bearing", "config.yaml")
}

// fileConfig is the on-disk shape; durations are written as "5s" rather than
// nanoseconds.
type fileConfig struct {
	Server         string      `yaml:"server"`
	GitHubOwner    string      `yaml:"github_owner"`
	ReconnectDelay string      `yaml:"reconnect_delay"`
	RequestTimeout string      `yaml:"request_timeout"`
	State          StateConfig `yaml:"state"`
	Log            LogConfig   `yaml:"log"`
	Theme          string      `yaml:"theme"`
}

func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(fileConfig{
		Server:         cfg.Server,
		GitHubOwner:    cfg.GitHubOwner,
		ReconnectDelay: cfg.ReconnectDelay.String(),
		RequestTimeout: cfg.RequestTimeout.String(),
		State:          cfg.State,
		Log:            cfg.Log,
		Theme:          cfg.Theme,
	})
}

// WriteDefault writes the default config to path, creating parent directories.
func WriteDefault(path string) error {
	data, err := Marshal(Default())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
