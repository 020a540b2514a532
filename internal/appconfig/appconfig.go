// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigName is the base name searched for in ./config and the working directory.
	DefaultConfigName = "config"
	// DefaultEndpoint is the measurement service audit endpoint.
	DefaultEndpoint = "http://localhost:5000/api/audit"
	// EnvPrefix prefixes environment overrides, e.g. ECOAUDIT_ENDPOINT.
	EnvPrefix = "ECOAUDIT"
	// defaultListen is the address the local web UI binds to.
	defaultListen = "127.0.0.1:8080"
	// defaultMaxUploadMB bounds uploads accepted by the web UI and local imports.
	defaultMaxUploadMB = 512
	// defaultFormat is the dashboard output format.
	defaultFormat = "terminal"
)

// Intake modes select the acquisition strategy.
const (
	IntakeRemote = "remote"
	IntakeLocal  = "local"
)

// Config represents the top-level application configuration.
type Config struct {
	Endpoint      string `mapstructure:"endpoint" json:"endpoint"`
	IntakeMode    string `mapstructure:"intakeMode" json:"intakeMode"`
	DefaultEpochs int    `mapstructure:"defaultEpochs" json:"defaultEpochs"`
	Listen        string `mapstructure:"listen" json:"listen"`
	LogFile       string `mapstructure:"logFile" json:"logFile,omitempty"`
	Debug         bool   `mapstructure:"debug" json:"debug"`
	Format        string `mapstructure:"format" json:"format"`
	MaxUploadMB   int    `mapstructure:"maxUploadMB" json:"maxUploadMB"`
	ConfigPath    string `mapstructure:"-" json:"-"`
}

// SetDefaults registers every configuration key on v so that environment
// overrides are honoured by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("intakeMode", IntakeRemote)
	v.SetDefault("defaultEpochs", 1)
	v.SetDefault("listen", defaultListen)
	v.SetDefault("logFile", "")
	v.SetDefault("debug", false)
	v.SetDefault("format", defaultFormat)
	v.SetDefault("maxUploadMB", defaultMaxUploadMB)
}

// Load reads configuration from path (or the default search locations when
// path is empty) into a fresh viper instance.
func Load(path string) (Config, error) {
	return LoadInto(viper.New(), path)
}

// LoadInto reads configuration into v, which may already carry bound flags.
// Precedence is flags > environment (.env included) > file > defaults. A
// missing file is only an error when path was given explicitly.
func LoadInto(v *viper.Viper, path string) (Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that no command could work with.
func (c Config) Validate() error {
	switch c.IntakeModeName() {
	case IntakeRemote, IntakeLocal:
	default:
		return fmt.Errorf("invalid configuration: intakeMode must be %q or %q, got %q", IntakeRemote, IntakeLocal, c.IntakeMode)
	}
	if _, err := url.ParseRequestURI(c.EndpointURL()); err != nil {
		return fmt.Errorf("invalid configuration: endpoint %q: %w", c.Endpoint, err)
	}
	return nil
}

// EndpointURL returns the audit endpoint, falling back to the default.
func (c Config) EndpointURL() string {
	if e := strings.TrimSpace(c.Endpoint); e != "" {
		return e
	}
	return DefaultEndpoint
}

// IntakeModeName returns the normalised intake mode.
func (c Config) IntakeModeName() string {
	mode := strings.ToLower(strings.TrimSpace(c.IntakeMode))
	if mode == "" {
		return IntakeRemote
	}
	return mode
}

// Epochs returns the default epoch count used when none is supplied.
func (c Config) Epochs() int {
	if c.DefaultEpochs < 1 {
		return 1
	}
	return c.DefaultEpochs
}

// ListenAddr returns the web UI bind address.
func (c Config) ListenAddr() string {
	if l := strings.TrimSpace(c.Listen); l != "" {
		return l
	}
	return defaultListen
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return int64(mb) << 20
}

// OutputFormat returns the configured dashboard format.
func (c Config) OutputFormat() string {
	if f := strings.TrimSpace(c.Format); f != "" {
		return strings.ToLower(f)
	}
	return defaultFormat
}

// LogFilePath returns the log file path; empty disables file logging.
func (c Config) LogFilePath() string {
	return strings.TrimSpace(c.LogFile)
}
