package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/hydrate"
	"github.com/vango-dev/hydrate/pkg/markup"
)

const (
	// ConfigName is the configuration file name without extension.
	// hydrate.json and hydrate.yaml are both accepted.
	ConfigName = "hydrate"

	// EnvPrefix prefixes environment overrides: HYDRATE_MODE,
	// HYDRATE_LOG_LEVEL, ...
	EnvPrefix = "HYDRATE"

	// DefaultAddr is the default listen address of the check service.
	DefaultAddr = ":8470"

	// DefaultMaxBodyBytes bounds one check request.
	DefaultMaxBodyBytes = 4 << 20
)

// Config is the complete hydrate configuration.
type Config struct {
	// Mode is "lenient" or "safety".
	Mode string `mapstructure:"mode"`

	// ContextWindow is the number of siblings shown around a divergence.
	ContextWindow int `mapstructure:"contextWindow"`

	// Lookahead caps the sibling search after a head mismatch. 0 is
	// unbounded.
	Lookahead int `mapstructure:"lookahead"`

	// TextPolicy is "default", "exact" or "collapse".
	TextPolicy string `mapstructure:"textPolicy"`

	// IgnoreAttrs lists attribute names excluded from comparison.
	IgnoreAttrs []string `mapstructure:"ignoreAttrs"`

	// KeepWhitespace keeps whitespace-only text on both sides.
	KeepWhitespace bool `mapstructure:"keepWhitespace"`

	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Serve   ServeConfig   `mapstructure:"serve"`

	path string
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level"`

	// Format is "text" or "json".
	Format string `mapstructure:"format"`
}

// MetricsConfig configures Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// ServeConfig configures the check service.
type ServeConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	MaxBodyBytes int64         `mapstructure:"maxBodyBytes"`
}

// Option customizes Load.
type Option func(v *viper.Viper) error

// WithFlag lets a command-line flag override key when the flag is set.
// A nil flag is ignored.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(v *viper.Viper) error {
		if flag == nil {
			return nil
		}
		return v.BindPFlag(key, flag)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", hydrate.Lenient.String())
	v.SetDefault("contextWindow", hydrate.DefaultContextWindow)
	v.SetDefault("lookahead", 0)
	v.SetDefault("textPolicy", "default")
	v.SetDefault("ignoreAttrs", []string{})
	v.SetDefault("keepWhitespace", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "vango")
	v.SetDefault("serve.addr", DefaultAddr)
	v.SetDefault("serve.readTimeout", 10*time.Second)
	v.SetDefault("serve.maxBodyBytes", DefaultMaxBodyBytes)
}

// New returns a Config holding the defaults.
func New() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads hydrate.json or hydrate.yaml from dir. A missing file is not
// an error: defaults and environment overrides apply. The result is
// validated.
func Load(dir string, opts ...Option) (*Config, error) {
	v := newViper()
	v.SetConfigName(ConfigName)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.New("E120").
				WithDetail("Failed to read configuration in " + dir + ": " + err.Error()).
				Wrap(err)
		}
	}
	return finish(v, opts)
}

// LoadFile reads the configuration from an explicit path.
func LoadFile(path string, opts ...Option) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to read " + path + ": " + err.Error()).
			WithSuggestion("Check that the file exists and is valid JSON or YAML").
			Wrap(err)
	}
	return finish(v, opts)
}

func finish(v *viper.Viper, opts []Option) (*Config, error) {
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, errors.New("E120").Wrap(err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to decode configuration: " + err.Error()).
			Wrap(err)
	}
	cfg.path = v.ConfigFileUsed()
	return &cfg, nil
}

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := hydrate.ParseMode(c.Mode); err != nil {
		return errors.New("E121").
			WithDetail(fmt.Sprintf("mode is %q; it must be \"safety\" or \"lenient\".", c.Mode))
	}
	if _, err := hydrate.TextPolicyByName(c.TextPolicy); err != nil {
		return errors.New("E123").
			WithDetail(fmt.Sprintf("textPolicy is %q; it must be \"default\", \"exact\" or \"collapse\".", c.TextPolicy))
	}
	for _, f := range []struct {
		name string
		n    int64
	}{
		{"contextWindow", int64(c.ContextWindow)},
		{"lookahead", int64(c.Lookahead)},
		{"serve.maxBodyBytes", c.Serve.MaxBodyBytes},
	} {
		if f.n < 0 {
			return errors.New("E122").
				WithDetail(fmt.Sprintf("%s is %d; it must not be negative.", f.name, f.n))
		}
	}
	if _, err := c.LogLevel(); err != nil {
		return errors.New("E120").
			WithDetail(fmt.Sprintf("log.level is %q; it must be debug, info, warn or error.", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("E120").
			WithDetail(fmt.Sprintf("log.format is %q; it must be text or json.", c.Log.Format))
	}
	return nil
}

// Options converts the configuration into reconciliation options. Sink,
// logger, metrics and tracer are left for the caller.
func (c *Config) Options() (hydrate.Options, error) {
	mode, err := hydrate.ParseMode(c.Mode)
	if err != nil {
		return hydrate.Options{}, errors.New("E121").Wrap(err)
	}
	text, err := hydrate.TextPolicyByName(c.TextPolicy)
	if err != nil {
		return hydrate.Options{}, errors.New("E123").Wrap(err)
	}
	return hydrate.Options{
		Mode:           mode,
		Text:           text,
		Lookahead:      c.Lookahead,
		ContextWindow:  c.ContextWindow,
		IgnoreAttrs:    append([]string(nil), c.IgnoreAttrs...),
		KeepWhitespace: c.KeepWhitespace,
	}, nil
}

// ParseOptions returns the markup parser options matching the
// configuration.
func (c *Config) ParseOptions() []markup.ParseOption {
	if c.KeepWhitespace {
		return []markup.ParseOption{markup.KeepWhitespace()}
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	name := strings.ToLower(strings.TrimSpace(c.Log.Level))
	if name == "warning" {
		name = "warn"
	}
	err := level.UnmarshalText([]byte(name))
	return level, err
}

// Path returns the file the configuration was read from, or "" when only
// defaults and environment were used.
func (c *Config) Path() string {
	return c.path
}
