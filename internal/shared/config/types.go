package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// AdminToken guards the operator endpoints. Empty disables them.
	AdminToken string `mapstructure:"admin_token"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	OperatorAddr string `mapstructure:"operator_addr"`
}

func (e *EmailConfig) IsConfigured() bool {
	return e.SMTPHost != "" && e.OperatorAddr != ""
}

// ProviderConfig holds per-provider settings consumed by the adapters.
type ProviderConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
	PollBaseURL   string `mapstructure:"poll_base_url"`
	Disabled      bool   `mapstructure:"disabled"`
}

// IngestionConfig tunes the webhook intake and the retry sweep.
type IngestionConfig struct {
	// AllowUnverifiedWebhooks bypasses the fail-closed secret check for
	// providers without a configured secret. Test mode only.
	AllowUnverifiedWebhooks bool `mapstructure:"allow_unverified_webhooks"`

	RetryLimit       int `mapstructure:"retry_limit"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts"`
	SweepIntervalSec int `mapstructure:"sweep_interval_sec"`
	PollIntervalSec  int `mapstructure:"poll_interval_sec"`

	// DefaultPollMinutes applies to integrations whose credentials carry
	// no poll interval of their own.
	DefaultPollMinutes int `mapstructure:"default_poll_minutes"`

	WebhookRatePerMinute int `mapstructure:"webhook_rate_per_minute"`
	WebhookRatePerHour   int `mapstructure:"webhook_rate_per_hour"`
}
