package config_test

import (
	"testing"
	"time"

	"github.com/parley-chat/parley/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RELAY_PING_INTERVAL_SECONDS", "")
	t.Setenv("RELAY_READ_TIMEOUT_SECONDS", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":3000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Server.TLSEnabled() {
		t.Fatal("TLS should be off without cert/key")
	}
	if cfg.Relay.PingInterval != 30*time.Second {
		t.Fatalf("unexpected ping interval: %s", cfg.Relay.PingInterval)
	}
	if cfg.Relay.ReadTimeout != 60*time.Second {
		t.Fatalf("unexpected read timeout: %s", cfg.Relay.ReadTimeout)
	}
}

func TestLoadPortForms(t *testing.T) {
	t.Setenv("PORT", "8080")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:8443")
	cfg, err = config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8443" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "80 80")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for PORT with spaces")
	}

	t.Setenv("PORT", "3000")
	t.Setenv("RELAY_PING_INTERVAL_SECONDS", "abc")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for non-numeric ping interval")
	}

	t.Setenv("RELAY_PING_INTERVAL_SECONDS", "0")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for zero ping interval")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("RELAY_PING_INTERVAL_SECONDS", "5")
	t.Setenv("RELAY_READ_TIMEOUT_SECONDS", "15")
	t.Setenv("TLS_CERT_FILE", "cert.pem")
	t.Setenv("TLS_KEY_FILE", "key.pem")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Relay.PingInterval != 5*time.Second {
		t.Fatalf("unexpected ping interval: %s", cfg.Relay.PingInterval)
	}
	if cfg.Relay.ReadTimeout != 15*time.Second {
		t.Fatalf("unexpected read timeout: %s", cfg.Relay.ReadTimeout)
	}
	if !cfg.Server.TLSEnabled() {
		t.Fatal("expected TLS enabled with cert and key set")
	}
}
