// Package config loads xbrlfetch settings from an optional YAML file and
// XBRLFETCH_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	edgar "github.com/RxDataLab/edgar-xbrl"
)

// EnvPrefix is prepended to every environment override, e.g.
// XBRLFETCH_DOWNLOAD_ROOT.
const EnvPrefix = "XBRLFETCH"

// Config holds the full application configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider" mapstructure:"provider"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Download DownloadConfig `yaml:"download" mapstructure:"download"`
	Retry    RetryConfig    `yaml:"retry" mapstructure:"retry"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ProviderConfig points at the EDGAR host.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// HTTPConfig sets the request headers and timeout. When Email is set the
// User-Agent declares it instead of the browser string.
type HTTPConfig struct {
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
	Accept    string        `yaml:"accept" mapstructure:"accept"`
	Email     string        `yaml:"email" mapstructure:"email"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DownloadConfig configures where and what is downloaded.
type DownloadConfig struct {
	Root          string `yaml:"root" mapstructure:"root"`
	Companies     string `yaml:"companies" mapstructure:"companies"`
	Extension     string `yaml:"extension" mapstructure:"extension"`
	PrimaryMarker string `yaml:"primary_marker" mapstructure:"primary_marker"`
}

// RetryConfig configures per-document retries.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. An empty path looks
// for config.yaml in the working directory and tolerates its absence; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("http.email", EnvPrefix+"_HTTP_EMAIL", edgar.SecEmailEnvVar); err != nil {
		return nil, eris.Wrap(err, "config: bind email env")
	}

	d := edgar.DefaultOptions()
	v.SetDefault("provider.base_url", d.BaseURL)
	v.SetDefault("http.user_agent", d.UserAgent)
	v.SetDefault("http.accept", d.Accept)
	v.SetDefault("http.email", "")
	v.SetDefault("http.timeout", d.Timeout)
	v.SetDefault("download.root", "./downloads")
	v.SetDefault("download.companies", "test.json")
	v.SetDefault("download.extension", d.Extension)
	v.SetDefault("download.primary_marker", d.PrimaryMarker)
	v.SetDefault("retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("retry.initial_backoff", d.Retry.InitialBackoff)
	v.SetDefault("retry.max_backoff", d.Retry.MaxBackoff)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ClientOptions converts the configuration into options for edgar.NewClient.
func (c *Config) ClientOptions() (edgar.Options, error) {
	userAgent := c.HTTP.UserAgent
	if c.HTTP.Email != "" {
		if err := edgar.ValidateEmail(c.HTTP.Email); err != nil {
			return edgar.Options{}, eris.Wrap(err, "config: http.email")
		}
		userAgent = edgar.BuildUserAgent(c.HTTP.Email)
	}

	retry := edgar.DefaultRetryConfig()
	retry.MaxAttempts = c.Retry.MaxAttempts
	retry.InitialBackoff = c.Retry.InitialBackoff
	retry.MaxBackoff = c.Retry.MaxBackoff

	return edgar.Options{
		BaseURL:       c.Provider.BaseURL,
		UserAgent:     userAgent,
		Accept:        c.HTTP.Accept,
		Timeout:       c.HTTP.Timeout,
		Extension:     c.Download.Extension,
		PrimaryMarker: c.Download.PrimaryMarker,
		Retry:         retry,
		Logger:        zap.L(),
	}, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
