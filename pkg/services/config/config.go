package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/de-tools/statement-atlas/pkg/models/domain"
	"github.com/de-tools/statement-atlas/pkg/store/fmp"
)

const EnvPrefix = "ATLAS"

type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Filter FilterConfig `mapstructure:"filter"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Export ExportConfig `mapstructure:"export"`
}

type APIConfig struct {
	Key             string        `mapstructure:"key"`
	Profile         string        `mapstructure:"profile"`
	CredentialsPath string        `mapstructure:"credentials_path"`
	BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
	Symbol          string        `mapstructure:"symbol" validate:"required"`
	Period          string        `mapstructure:"period" validate:"oneof=annual quarter"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// FilterConfig declares the unit users type amount bounds in.
type FilterConfig struct {
	Unit string `mapstructure:"unit" validate:"omitempty,oneof=units thousands millions billions"`
}

func (f FilterConfig) Scale() domain.Scale {
	return domain.Scale(f.Unit)
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path" validate:"required_if=Enabled true"`
	TTL     time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// ExportConfig selects the AWS credentials used for s3:// export targets.
type ExportConfig struct {
	AWSProfile string `mapstructure:"aws_profile"`
	Region     string `mapstructure:"region"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.key", "")
	v.SetDefault("api.profile", DefaultProfile)
	v.SetDefault("api.credentials_path", "")
	v.SetDefault("api.base_url", fmp.DefaultBaseURL)
	v.SetDefault("api.symbol", fmp.DefaultSymbol)
	v.SetDefault("api.period", fmp.DefaultPeriod)
	v.SetDefault("api.timeout", fmp.DefaultTimeout)

	v.SetDefault("filter.unit", string(domain.ScaleUnits))

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", "statement-atlas.db")
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("export.aws_profile", "")
	v.SetDefault("export.region", "")
}

// Load reads the optional YAML file at path and applies ATLAS_* environment
// overrides. FMP_API_KEY is honoured as an alias for ATLAS_API_KEY.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.key", EnvPrefix+"_API_KEY", "FMP_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// ResolveAPIKey picks the explicit key first, then the configured profile.
// It returns fmp.ErrCredentialNotFound when neither yields a key.
func ResolveAPIKey(cfg *Config, registry CredentialRegistry) (string, error) {
	if key := strings.TrimSpace(cfg.API.Key); key != "" {
		return key, nil
	}
	if registry == nil || cfg.API.Profile == "" {
		return "", fmp.ErrCredentialNotFound
	}
	return registry.GetAPIKey(cfg.API.Profile)
}
