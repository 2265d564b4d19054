// Package config loads the server configuration from flags, ROTAS_* environment variables
// and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rotas-project/rotas/internal/version"
)

// ConfigSearchLocations are tried in order when no --config is given, followed by
// rotas/config.yaml under the XDG config directories.
var ConfigSearchLocations = []string{".rotas.yaml", ".rotas/config.yaml"}

type Database struct {
	URL            string        `yaml:"url" json:"url" mapstructure:"url"`
	ConnectTimeout time.Duration `yaml:"connect-timeout" json:"connect-timeout" mapstructure:"connect-timeout"`
	Debug          bool          `yaml:"debug" json:"debug" mapstructure:"debug"`
}

type Logging struct {
	Level string `yaml:"level" json:"level" mapstructure:"level"`
}

type Config struct {
	ConfigPath     string   `yaml:"-" json:"-" mapstructure:"config"`
	Environment    string   `yaml:"environment" json:"environment" mapstructure:"environment"`
	Port           string   `yaml:"port" json:"port" mapstructure:"port"`
	AllowedOrigins string   `yaml:"allowed-origins" json:"allowed-origins" mapstructure:"allowed-origins"`
	JWTSecret      string   `yaml:"jwt-secret" json:"-" mapstructure:"jwt-secret"`
	Database       Database `yaml:"database" json:"database" mapstructure:"database"`
	Log            Logging  `yaml:"log" json:"log" mapstructure:"log"`
}

func Default() Config {
	return Config{
		Environment:    "development",
		Port:           "3000",
		AllowedOrigins: "http://localhost:3000,http://localhost:4000,http://127.0.0.1:3000,http://127.0.0.1:4000",
		Database: Database{
			URL:            "rotas.db",
			ConnectTimeout: 30 * time.Second,
		},
		Log: Logging{Level: "info"},
	}
}

// NewViper returns a viper instance reading ROTAS_* variables, with "." and "-" in keys
// mapped to "_" (database.url -> ROTAS_DATABASE_URL).
func NewViper() *viper.Viper {
	v := viper.NewWithOptions(
		viper.EnvKeyReplacer(
			strings.NewReplacer(".", "_", "-", "_"),
		),
	)

	v.SetEnvPrefix(version.ApplicationName)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	return v
}

func (c *Config) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.ConfigPath, "config", "c", c.ConfigPath, "path to the application config")
	flags.StringVarP(&c.Port, "port", "p", c.Port, "port the HTTP server listens on")
	flags.StringVarP(&c.Database.URL, "database-url", "d", c.Database.URL, "database URL (postgres://... or a sqlite path)")
	flags.StringVarP(&c.Log.Level, "log-level", "", c.Log.Level, "log level (debug, info, warn, error)")
}

func (c *Config) BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	binds := map[string]string{
		"config":       "config",
		"port":         "port",
		"database.url": "database-url",
		"log.level":    "log-level",
	}
	for key, name := range binds {
		if err := bind(v, key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func bind(v *viper.Viper, key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("unable to bind %q: flag not registered", key)
	}
	return v.BindPFlag(key, flag)
}

// Load merges defaults, the config file, environment and bound flags into c.
func (c *Config) Load(v *viper.Viper) error {
	d := Default()
	v.SetDefault("config", c.ConfigPath)
	v.SetDefault("environment", d.Environment)
	v.SetDefault("port", d.Port)
	v.SetDefault("allowed-origins", d.AllowedOrigins)
	v.SetDefault("jwt-secret", "")
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.connect-timeout", d.Database.ConnectTimeout)
	v.SetDefault("database.debug", false)
	v.SetDefault("log.level", d.Log.Level)

	path := v.GetString("config")
	if path == "" {
		path = searchConfig()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file %q: %w", path, err)
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	c.ConfigPath = path
	return c.Validate()
}

func searchConfig() string {
	for _, p := range ConfigSearchLocations {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if found, err := xdg.SearchConfigFile("rotas/config.yaml"); err == nil {
		return found
	}
	return ""
}

func (c Config) Validate() error {
	var errs error
	if strings.TrimSpace(c.Port) == "" {
		errs = multierror.Append(errs, errors.New("port is required"))
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		errs = multierror.Append(errs, errors.New("database url is required"))
	}
	if c.Database.ConnectTimeout < 0 {
		errs = multierror.Append(errs, errors.New("database connect timeout cannot be negative"))
	}
	return errs
}

// Production reports whether the server runs with production defaults.
func (c Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}
