// Package config loads application configuration from optional layered YAML
// files and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/NomadCrew/nomad-crew-newsletter/logger"
	"github.com/NomadCrew/nomad-crew-newsletter/pkg/secret"
	"github.com/NomadCrew/nomad-crew-newsletter/pkg/valueobjects"
	"github.com/spf13/viper"
)

// Environment is the deployment environment the process runs in.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Email provider selectors for EMAIL_CLIENT.PROVIDER.
const (
	EmailProviderHTTP   = "http"
	EmailProviderResend = "resend"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Host           string      `mapstructure:"HOST" yaml:"host"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	// BaseURL is the public address used to build confirmation links.
	BaseURL string `mapstructure:"BASE_URL" yaml:"base_url"`
	Version string `mapstructure:"VERSION" yaml:"version"`
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}

// DatabaseConfig holds PostgreSQL connection details.
type DatabaseConfig struct {
	Host             string `mapstructure:"HOST" yaml:"host"`
	Port             int    `mapstructure:"PORT" yaml:"port"`
	User             string `mapstructure:"USER" yaml:"user"`
	Password         string `mapstructure:"PASSWORD" yaml:"password"`
	Name             string `mapstructure:"NAME" yaml:"name"`
	SSLMode          string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	MaxConnections   int    `mapstructure:"MAX_CONNECTIONS" yaml:"max_connections"`
	AcquireTimeoutMS int    `mapstructure:"ACQUIRE_TIMEOUT_MS" yaml:"acquire_timeout_ms"`
}

// RedisConfig holds Redis connection details for the rate limiter.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"ENABLED" yaml:"enabled"`
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
	UseTLS   bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
}

// EmailClientConfig configures the outbound email provider.
type EmailClientConfig struct {
	Provider           string `mapstructure:"PROVIDER" yaml:"provider"`
	BaseURL            string `mapstructure:"BASE_URL" yaml:"base_url"`
	SenderEmail        string `mapstructure:"SENDER_EMAIL" yaml:"sender_email"`
	AuthorizationToken string `mapstructure:"AUTHORIZATION_TOKEN" yaml:"authorization_token"`
	TimeoutMS          int    `mapstructure:"TIMEOUT_MS" yaml:"timeout_ms"`
}

// Sender parses the configured sender address.
func (e EmailClientConfig) Sender() (valueobjects.SubscriberEmail, error) {
	return valueobjects.ParseSubscriberEmail(e.SenderEmail)
}

// Token returns the provider credential wrapped so it cannot be printed.
func (e EmailClientConfig) Token() secret.String {
	return secret.New(e.AuthorizationToken)
}

func (e EmailClientConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutMS) * time.Millisecond
}

// RateLimitConfig holds limits for public endpoints.
type RateLimitConfig struct {
	SubscribeRequestsPerMinute int `mapstructure:"SUBSCRIBE_REQUESTS_PER_MINUTE" yaml:"subscribe_requests_per_minute"`
	WindowSeconds              int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Config aggregates all application configuration sections.
type Config struct {
	Server      ServerConfig      `mapstructure:"SERVER" yaml:"server"`
	Database    DatabaseConfig    `mapstructure:"DATABASE" yaml:"database"`
	Redis       RedisConfig       `mapstructure:"REDIS" yaml:"redis"`
	EmailClient EmailClientConfig `mapstructure:"EMAIL_CLIENT" yaml:"email_client"`
	RateLimit   RateLimitConfig   `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// Options controls where LoadConfig looks for configuration files.
type Options struct {
	// Dir holds base.yaml and <environment>.yaml. Both files are optional.
	Dir string
}

// bindEnvVars binds config keys to environment variables.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.HOST", "0.0.0.0")
	v.SetDefault("SERVER.PORT", "8000")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.BASE_URL", "http://127.0.0.1:8000")
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "newsletter")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_CONNECTIONS", 10)
	v.SetDefault("DATABASE.ACQUIRE_TIMEOUT_MS", 2000)
	v.SetDefault("REDIS.ENABLED", true)
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("EMAIL_CLIENT.PROVIDER", EmailProviderHTTP)
	v.SetDefault("EMAIL_CLIENT.BASE_URL", "http://localhost:8025")
	v.SetDefault("EMAIL_CLIENT.SENDER_EMAIL", "")
	v.SetDefault("EMAIL_CLIENT.AUTHORIZATION_TOKEN", "")
	v.SetDefault("EMAIL_CLIENT.TIMEOUT_MS", 10000)
	v.SetDefault("RATE_LIMIT.SUBSCRIBE_REQUESTS_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)
}

var envBindings = [][2]string{
	{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
	{"SERVER.HOST", "HOST"},
	{"SERVER.PORT", "PORT"},
	{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
	{"SERVER.BASE_URL", "BASE_URL"},
	{"SERVER.VERSION", "VERSION"},
	{"DATABASE.HOST", "DB_HOST"},
	{"DATABASE.PORT", "DB_PORT"},
	{"DATABASE.USER", "DB_USER"},
	{"DATABASE.PASSWORD", "DB_PASSWORD"},
	{"DATABASE.NAME", "DB_NAME"},
	{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
	{"DATABASE.MAX_CONNECTIONS", "DB_MAX_CONNECTIONS"},
	{"DATABASE.ACQUIRE_TIMEOUT_MS", "DB_ACQUIRE_TIMEOUT_MS"},
	{"REDIS.ENABLED", "REDIS_ENABLED"},
	{"REDIS.ADDRESS", "REDIS_ADDRESS"},
	{"REDIS.PASSWORD", "REDIS_PASSWORD"},
	{"REDIS.DB", "REDIS_DB"},
	{"REDIS.USE_TLS", "REDIS_USE_TLS"},
	{"EMAIL_CLIENT.PROVIDER", "EMAIL_CLIENT_PROVIDER"},
	{"EMAIL_CLIENT.BASE_URL", "EMAIL_CLIENT_BASE_URL"},
	{"EMAIL_CLIENT.SENDER_EMAIL", "EMAIL_CLIENT_SENDER_EMAIL"},
	{"EMAIL_CLIENT.AUTHORIZATION_TOKEN", "EMAIL_CLIENT_AUTHORIZATION_TOKEN"},
	{"EMAIL_CLIENT.TIMEOUT_MS", "EMAIL_CLIENT_TIMEOUT_MS"},
	{"RATE_LIMIT.SUBSCRIBE_REQUESTS_PER_MINUTE", "RATE_LIMIT_SUBSCRIBE_REQUESTS_PER_MINUTE"},
	{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
}

// LoadConfig builds the configuration from defaults, then
// <dir>/base.yaml, then <dir>/<environment>.yaml, then environment variables.
func LoadConfig(opts Options) (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	if opts.Dir != "" {
		if err := mergeFile(v, opts.Dir, "base"); err != nil {
			return nil, err
		}
		if err := mergeFile(v, opts.Dir, v.GetString("SERVER.ENVIRONMENT")); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_address", cfg.Server.Address(),
		"db_host", cfg.Database.Host,
		"redis_enabled", cfg.Redis.Enabled,
		"email_provider", cfg.EmailClient.Provider,
		"email_sender", logger.MaskEmail(cfg.EmailClient.SenderEmail),
	)
	return &cfg, nil
}

func mergeFile(v *viper.Viper, dir, name string) error {
	v.SetConfigFile(filepath.Join(dir, name+".yaml"))
	if err := v.MergeInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s config: %w", name, err)
	}
	return nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := url.ParseRequestURI(cfg.Server.BaseURL); err != nil {
		return fmt.Errorf("invalid server base URL: %w", err)
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	if cfg.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if cfg.Database.Password == "" {
		log.Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if cfg.Database.MaxConnections <= 0 {
		return fmt.Errorf("database max connections must be positive")
	}
	if cfg.Database.AcquireTimeoutMS <= 0 {
		return fmt.Errorf("database acquire timeout must be positive")
	}

	if cfg.Redis.Enabled && cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if err := validateEmailClient(&cfg.EmailClient); err != nil {
		return err
	}

	if cfg.RateLimit.SubscribeRequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit subscribe requests per minute must be positive")
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}

	return nil
}

func validateEmailClient(cfg *EmailClientConfig) error {
	switch cfg.Provider {
	case EmailProviderHTTP, EmailProviderResend:
	default:
		return fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
	if cfg.Provider == EmailProviderHTTP {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("email client base URL must be an absolute URL")
		}
	}
	if _, err := cfg.Sender(); err != nil {
		return fmt.Errorf("email client sender: %w", err)
	}
	if cfg.AuthorizationToken == "" {
		return fmt.Errorf("email client authorization token is required")
	}
	if cfg.TimeoutMS <= 0 {
		return fmt.Errorf("email client timeout must be positive")
	}
	return nil
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
