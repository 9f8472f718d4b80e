package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/salestax/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig
	Avatax     AvataxConfig `validate:"required"`
	Cache      CacheConfig
	Sentry     SentryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	// AutoMigrate applies the schema when the server starts
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AvataxConfig holds the defaults for the tax service connection. Values
// stored in the preference table take precedence over these.
type AvataxConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	Account        string        `mapstructure:"account"`
	LicenseKey     string        `mapstructure:"license_key"`
	CompanyCode    string        `mapstructure:"company_code"`
	ClientVersion  string        `mapstructure:"client_version" validate:"required"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"required"`
	TaxCalculation bool          `mapstructure:"tax_calculation"`
	DocumentCommit bool          `mapstructure:"document_commit"`
	// Origin is the ship-from address encoded as JSON
	Origin string `mapstructure:"origin"`
}

type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	PreferenceTTL time.Duration `mapstructure:"preference_ttl"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional, real deployments inject the environment directly
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/salestax")

	v.SetEnvPrefix("SALESTAX")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every default at the loading boundary so the rest of
// the code never falls back to ambient constants.
func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.auto_migrate", true)
	v.SetDefault("avatax.endpoint", "https://development.avalara.net")
	v.SetDefault("avatax.client_version", types.DefaultAvataxClientVersion)
	v.SetDefault("avatax.timeout", 5*time.Second)
	v.SetDefault("avatax.tax_calculation", true)
	v.SetDefault("avatax.document_commit", true)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.preference_ttl", time.Minute)
	v.SetDefault("sentry.sample_rate", 1.0)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a configuration for tests and local scripts
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Avatax: AvataxConfig{
			Endpoint:       "https://development.avalara.net",
			ClientVersion:  types.DefaultAvataxClientVersion,
			Timeout:        5 * time.Second,
			TaxCalculation: true,
			DocumentCommit: true,
		},
		Cache: CacheConfig{Enabled: false},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
