package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

// ClientEnvironment holds the configuration for the Shinkansen API client
// and CLI, loaded from environment variables.
type ClientEnvironment struct {
	Environment string `env:"ENVIRONMENT,default=dev"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`

	// API settings
	BaseURL     string        `env:"SHINKANSEN_BASE_URL,default=https://api.shinkansen.finance/v1"`
	APIKey      string        `env:"SHINKANSEN_API_KEY,required=true"`
	HTTPTimeout time.Duration `env:"SHINKANSEN_HTTP_TIMEOUT,default=30s"`

	// Signing material
	SigningKeyPath  string `env:"SIGNING_KEY_PATH,required=true"`
	SigningCertPath string `env:"SIGNING_CERT_PATH,required=true"`

	// Identity used as the message sender
	SenderFinID       string `env:"SENDER_FIN_ID,required=true"`
	SenderFinIDSchema string `env:"SENDER_FIN_ID_SCHEMA,default=SHINKANSEN"`
}

// ServerEnvironment holds the configuration for the webhook receiver,
// loaded from environment variables.
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	MaxRequestBytes       int64         `env:"MAX_REQUEST_BYTES,default=1048576"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`

	// Required webhook configuration - must be set by environment variables
	CertWhitelistPath string `env:"CERT_WHITELIST_PATH,required=true"`
	ReceiverFinID     string `env:"RECEIVER_FIN_ID,required=true"`

	// Sender identity expected on incoming messages. Defaults to the
	// Shinkansen network itself.
	ExpectedSenderFinID string `env:"EXPECTED_SENDER_FIN_ID,default=SHINKANSEN"`

	// Optional shared secret; when set, requests must carry it in the
	// Shinkansen-Api-Key header.
	WebhookAPIKey string `env:"WEBHOOK_API_KEY"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewClientConfig loads environment variables and returns a
// ClientEnvironment struct that contains the values
func NewClientConfig() (*ClientEnvironment, error) {
	var cfg ClientEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if !validEnvs[cfg.Environment] {
		return nil, fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	return &cfg, nil
}

// NewServerConfig loads environment variables and returns a
// ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig checks for required env variables
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if cfg.MaxRequestBytes < 1 {
		return fmt.Errorf("MAX_REQUEST_BYTES must be at least 1")
	}
	return nil
}
