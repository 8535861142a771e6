package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "poolhub/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig              `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig            `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig              `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig               `mapstructure:"redis"`
	Email     sharedConfig.EmailConfig               `mapstructure:"email"`
	Ingestion sharedConfig.IngestionConfig           `mapstructure:"ingestion"`
	Providers map[string]sharedConfig.ProviderConfig `mapstructure:"providers"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("POOLHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Provider returns the settings for one provider, zero-valued when absent.
func (c *Config) Provider(name string) sharedConfig.ProviderConfig {
	if c.Providers == nil {
		return sharedConfig.ProviderConfig{}
	}
	return c.Providers[name]
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "poolhub_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Email defaults (unset means dead-letter alerts are skipped)
	viper.SetDefault("email.smtp_host", "")
	viper.SetDefault("email.smtp_port", 587)
	viper.SetDefault("email.from_address", "noreply@poolhub.local")
	viper.SetDefault("email.from_name", "PoolHub")
	viper.SetDefault("email.operator_addr", "")

	// Ingestion defaults
	viper.SetDefault("ingestion.allow_unverified_webhooks", false)
	viper.SetDefault("ingestion.retry_limit", 50)
	viper.SetDefault("ingestion.retry_max_attempts", 5)
	viper.SetDefault("ingestion.sweep_interval_sec", 30)
	viper.SetDefault("ingestion.poll_interval_sec", 60)
	viper.SetDefault("ingestion.default_poll_minutes", 15)
	viper.SetDefault("ingestion.webhook_rate_per_minute", 120)
	viper.SetDefault("ingestion.webhook_rate_per_hour", 3600)

	// Provider defaults (secrets must be configured per environment)
	viper.SetDefault("providers.weather_station.webhook_secret", "")
	viper.SetDefault("providers.weather_station.poll_base_url", "")
	viper.SetDefault("providers.weather_station.disabled", false)
	viper.SetDefault("providers.smart_meter.webhook_secret", "")
	viper.SetDefault("providers.smart_meter.disabled", false)
}
