package config

import (
    "errors"
    "fmt"
    "os"
    "time"

    "github.com/adrg/xdg"
    "go.uber.org/zap"
    "gopkg.in/yaml.v2"
)

// RelPath is the config file location below the XDG config directories.
const RelPath = "tantfant/config.yaml"

// EnvListen overrides the listen address when set.
const EnvListen = "TANTFANT_LISTEN"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
    Listen           string        `yaml:"listen"`
    LogLevel         string        `yaml:"log_level"`
    LogDevelopment   bool          `yaml:"log_development"`
    Heartbeat        time.Duration `yaml:"heartbeat"`
    AllowedOrigins   []string      `yaml:"allowed_origins"`
    SubscriberBuffer int           `yaml:"subscriber_buffer"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
    return Config{
        Listen:           ":8080",
        LogLevel:         "info",
        Heartbeat:        15 * time.Second,
        SubscriberBuffer: 1,
    }
}

// Locate returns path if set, otherwise searches the XDG config directories.
// It returns "" when no config file exists.
func Locate(path string) string {
    if path != "" {
        return path
    }
    // xdg only fails when the file is in none of the search paths
    found, err := xdg.SearchConfigFile(RelPath)
    if err != nil {
        return ""
    }
    return found
}

// Load reads the file at path over the defaults. An empty path yields the
// defaults. The EnvListen variable takes precedence over the file.
func Load(path string) (*Config, error) {
    cfg := Default()
    if path != "" {
        raw, err := os.ReadFile(path)
        if err != nil {
            return nil, fmt.Errorf("read config %s: %w", path, err)
        }
        if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
            return nil, fmt.Errorf("parse config %s: %w", path, err)
        }
    }
    if v, ok := os.LookupEnv(EnvListen); ok && v != "" {
        cfg.Listen = v
    }
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return &cfg, nil
}

func (c *Config) Validate() error {
    if c.Listen == "" {
        return fmt.Errorf("%w: listen address is empty", ErrInvalid)
    }
    if _, err := c.Level(); err != nil {
        return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
    }
    if c.Heartbeat <= 0 {
        return fmt.Errorf("%w: heartbeat must be positive", ErrInvalid)
    }
    if c.SubscriberBuffer < 1 {
        return fmt.Errorf("%w: subscriber_buffer must be at least 1", ErrInvalid)
    }
    return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zap.AtomicLevel, error) {
    lvl := zap.NewAtomicLevel()
    err := lvl.UnmarshalText([]byte(c.LogLevel))
    return lvl, err
}

// Logger builds the zap logger described by the config.
func (c *Config) Logger() (*zap.Logger, error) {
    lvl, err := c.Level()
    if err != nil {
        return nil, err
    }
    zc := zap.NewProductionConfig()
    if c.LogDevelopment {
        zc = zap.NewDevelopmentConfig()
    }
    zc.Level = lvl
    return zc.Build()
}
