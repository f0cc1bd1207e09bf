package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates the relay's settings.
type Config struct {
	Server ServerConfig
	Relay  RelayConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	relay, err := loadRelayConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Relay: relay}, nil
}

// ServerConfig describes the HTTP(S) listener.
type ServerConfig struct {
	Addr      string
	CertFile  string
	KeyFile   string
	StaticDir string
}

// TLSEnabled reports whether the listener terminates TLS itself. Unset
// cert/key means a fronting proxy handles it.
func (c ServerConfig) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3000"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		// allow both ":3000" and "127.0.0.1:3000" to be passed directly
		addr = ":" + port
	}

	return ServerConfig{
		Addr:      addr,
		CertFile:  strings.TrimSpace(os.Getenv("TLS_CERT_FILE")),
		KeyFile:   strings.TrimSpace(os.Getenv("TLS_KEY_FILE")),
		StaticDir: getEnvOrDefault("STATIC_DIR", "dist"),
	}, nil
}

// RelayConfig describes the transport-side timers.
type RelayConfig struct {
	PingInterval time.Duration
	ReadTimeout  time.Duration
}

func loadRelayConfig() (RelayConfig, error) {
	ping, err := parseOptionalIntEnv("RELAY_PING_INTERVAL_SECONDS")
	if err != nil {
		return RelayConfig{}, err
	}
	pingSeconds := 30
	if ping != nil {
		if *ping < 1 {
			return RelayConfig{}, fmt.Errorf("RELAY_PING_INTERVAL_SECONDS must be positive, got %d", *ping)
		}
		pingSeconds = *ping
	}

	read, err := parseOptionalIntEnv("RELAY_READ_TIMEOUT_SECONDS")
	if err != nil {
		return RelayConfig{}, err
	}
	readSeconds := 60
	if read != nil {
		if *read < 1 {
			return RelayConfig{}, fmt.Errorf("RELAY_READ_TIMEOUT_SECONDS must be positive, got %d", *read)
		}
		readSeconds = *read
	}

	return RelayConfig{
		PingInterval: time.Duration(pingSeconds) * time.Second,
		ReadTimeout:  time.Duration(readSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
