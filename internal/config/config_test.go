package config

import (
	"testing"
	"time"
)

func setClientEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SHINKANSEN_API_KEY", "secret")
	t.Setenv("SIGNING_KEY_PATH", "/keys/signing.key.pem")
	t.Setenv("SIGNING_CERT_PATH", "/keys/signing.crt.pem")
	t.Setenv("SENDER_FIN_ID", "ACME")
}

func setServerEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CERT_WHITELIST_PATH", "/keys/whitelist.pem")
	t.Setenv("RECEIVER_FIN_ID", "ACME")
}

func TestNewClientConfigDefaults(t *testing.T) {
	setClientEnv(t)

	cfg, err := NewClientConfig()
	if err != nil {
		t.Fatalf("could not load config: %v", err)
	}

	if cfg.Environment != "dev" {
		t.Errorf("environment = %q, want dev", cfg.Environment)
	}
	if cfg.BaseURL != "https://api.shinkansen.finance/v1" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("http timeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if cfg.SenderFinIDSchema != "SHINKANSEN" {
		t.Errorf("sender fin id schema = %q, want SHINKANSEN", cfg.SenderFinIDSchema)
	}
}

func TestNewClientConfigMissingAPIKey(t *testing.T) {
	t.Setenv("SIGNING_KEY_PATH", "/keys/signing.key.pem")
	t.Setenv("SIGNING_CERT_PATH", "/keys/signing.crt.pem")
	t.Setenv("SENDER_FIN_ID", "ACME")

	if _, err := NewClientConfig(); err == nil {
		t.Error("expected missing SHINKANSEN_API_KEY to fail")
	}
}

func TestNewServerConfigDefaults(t *testing.T) {
	setServerEnv(t)

	cfg, err := NewServerConfig()
	if err != nil {
		t.Fatalf("could not load config: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.ExpectedSenderFinID != "SHINKANSEN" {
		t.Errorf("expected sender = %q, want SHINKANSEN", cfg.ExpectedSenderFinID)
	}
	if cfg.MaxRequestBytes != 1048576 {
		t.Errorf("max request bytes = %d", cfg.MaxRequestBytes)
	}
	if cfg.ServerShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.ServerShutdownTimeout)
	}
}

func TestNewServerConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port too small", "PORT", "0"},
		{"port too large", "PORT", "70000"},
		{"unknown environment", "ENVIRONMENT", "production"},
		{"request size too small", "MAX_REQUEST_BYTES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setServerEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := NewServerConfig(); err == nil {
				t.Errorf("expected %s=%s to be rejected", tt.key, tt.value)
			}
		})
	}
}
