// Package config loads the service configuration from defaults, an optional
// TOML file and CHIRAL_* environment variables, in that order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/H1W0XXX/chiralcarbon/errors"
)

// EnvPrefix is prepended to every environment override, e.g.
// CHIRAL_SERVER_ADDR or CHIRAL_CAPTCHA_MIN_CHIRAL.
const EnvPrefix = "CHIRAL"

// Molecule source kinds.
const (
	SourceSDF     = "sdf"
	SourcePubChem = "pubchem"
)

// Challenge store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Source  SourceConfig  `mapstructure:"source"`
	PubChem PubChemConfig `mapstructure:"pubchem"`
	Captcha CaptchaConfig `mapstructure:"captcha"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
}

type SourceConfig struct {
	Kind      string `mapstructure:"kind"`
	SDFPath   string `mapstructure:"sdf_path"`
	IndexPath string `mapstructure:"index_path"`
}

type PubChemConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Retries           int     `mapstructure:"retries"`
}

type CaptchaConfig struct {
	MinChiral  int `mapstructure:"min_chiral"`
	Attempts   int `mapstructure:"attempts"`
	MaxSize    int `mapstructure:"max_size"`
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

type StoreConfig struct {
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// Timeout returns the PubChem request timeout.
func (c PubChemConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TTL returns how long an issued challenge stays verifiable.
func (c CaptchaConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":28416")
	v.SetDefault("server.static_dir", "./static")

	v.SetDefault("source.kind", SourceSDF)
	v.SetDefault("source.sdf_path", "Compound_156500001_157000000.sdf")
	v.SetDefault("source.index_path", "") // derived from sdf_path when empty

	v.SetDefault("pubchem.base_url", "https://pubchem.ncbi.nlm.nih.gov")
	v.SetDefault("pubchem.timeout_seconds", 10)
	v.SetDefault("pubchem.requests_per_second", 5.0) // PUG REST asks for at most 5/s
	v.SetDefault("pubchem.retries", 5)

	v.SetDefault("captcha.min_chiral", 3)
	v.SetDefault("captcha.attempts", 5)
	v.SetDefault("captcha.max_size", 600)
	v.SetDefault("captcha.ttl_seconds", 300)

	v.SetDefault("store.kind", StoreMemory)
	v.SetDefault("store.path", "challenges.db")

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// New returns a Viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads configuration. An empty path means defaults and environment only.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if cfg.Source.IndexPath == "" && cfg.Source.SDFPath != "" {
		cfg.Source.IndexPath = strings.TrimSuffix(cfg.Source.SDFPath, ".sdf") + ".index"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceSDF:
		if c.Source.SDFPath == "" {
			return errors.New("source.sdf_path is required when source.kind is sdf")
		}
	case SourcePubChem:
		if c.PubChem.BaseURL == "" {
			return errors.New("pubchem.base_url is required when source.kind is pubchem")
		}
	default:
		return errors.Newf("unknown source.kind %q", c.Source.Kind)
	}

	switch c.Store.Kind {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path is required when store.kind is sqlite")
		}
	default:
		return errors.Newf("unknown store.kind %q", c.Store.Kind)
	}

	if c.Captcha.MinChiral < 1 {
		return errors.Newf("captcha.min_chiral must be positive, got %d", c.Captcha.MinChiral)
	}
	if c.Captcha.Attempts < 1 {
		return errors.Newf("captcha.attempts must be positive, got %d", c.Captcha.Attempts)
	}
	if c.Captcha.MaxSize < 16 {
		return errors.Newf("captcha.max_size must be at least 16, got %d", c.Captcha.MaxSize)
	}
	if c.Captcha.TTLSeconds < 0 {
		return errors.Newf("captcha.ttl_seconds must not be negative, got %d", c.Captcha.TTLSeconds)
	}
	if c.PubChem.RequestsPerSecond <= 0 {
		return errors.Newf("pubchem.requests_per_second must be positive, got %v", c.PubChem.RequestsPerSecond)
	}
	if c.PubChem.Retries < 1 {
		return errors.Newf("pubchem.retries must be positive, got %d", c.PubChem.Retries)
	}
	return nil
}
