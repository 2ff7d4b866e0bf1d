package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends for the local key-value state.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	API        APIConfig        `mapstructure:"api"`
	Weather    WeatherConfig    `mapstructure:"weather"`
	Polling    PollingConfig    `mapstructure:"polling"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// APIConfig points at the remote hive API.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WeatherConfig struct {
	GeocodingURL    string        `mapstructure:"geocoding_url"`
	ForecastURL     string        `mapstructure:"forecast_url"`
	DefaultLocation string        `mapstructure:"default_location"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type PollingConfig struct {
	HiveInterval    time.Duration `mapstructure:"hive_interval"`
	WeatherInterval time.Duration `mapstructure:"weather_interval"`
}

type StorageConfig struct {
	Backend   string         `mapstructure:"backend"`
	KeyPrefix string         `mapstructure:"key_prefix"`
	Redis     RedisConfig    `mapstructure:"redis"`
	Postgres  PostgresConfig `mapstructure:"postgres"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type MonitoringConfig struct {
	// EventRetention bounds windowed event queries on /metrics.
	EventRetention time.Duration `mapstructure:"event_retention"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	return load(viper.New(), "./config")
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	v.SetEnvPrefix("BEEMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	setDefaults(v)

	// Load config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Remote hive API
	v.SetDefault("api.base_url", "http://localhost:5000/api")
	v.SetDefault("api.timeout", "8s")

	// Weather
	v.SetDefault("weather.geocoding_url", "https://geocoding-api.open-meteo.com")
	v.SetDefault("weather.forecast_url", "https://api.open-meteo.com")
	v.SetDefault("weather.default_location", "Tashkent")
	v.SetDefault("weather.cache_ttl", "15m")
	v.SetDefault("weather.timeout", "8s")

	// Polling
	v.SetDefault("polling.hive_interval", "10s")
	v.SetDefault("polling.weather_interval", "15m")

	// Storage
	v.SetDefault("storage.backend", StorageMemory)
	v.SetDefault("storage.key_prefix", "beemind:")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", 6379)
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.password", "")
	// Empty defaults register the keys so env overrides are picked up
	v.SetDefault("storage.postgres.host", "")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.user", "")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.dbname", "beemind")
	v.SetDefault("storage.postgres.sslmode", "disable")

	// Monitoring defaults
	v.SetDefault("monitoring.event_retention", "24h")
}

func validateConfig(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	if config.Polling.HiveInterval <= 0 {
		return fmt.Errorf("polling hive interval must be positive")
	}
	if config.Polling.WeatherInterval <= 0 {
		return fmt.Errorf("polling weather interval must be positive")
	}
	switch config.Storage.Backend {
	case StorageMemory, StorageRedis:
	case StoragePostgres:
		if config.Storage.Postgres.Host == "" {
			return fmt.Errorf("postgres host is required for the postgres storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
	return nil
}
