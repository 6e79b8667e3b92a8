package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// ServerConfig holds every tunable of the server. Values come from an
// optional JSON file; HIDDENCARD_* environment variables override
// individual keys on top of it.
type ServerConfig struct {
	// GameAddr is the UDP listen address of the WebTransport gateway.
	GameAddr string `json:"game_addr"`
	// HTTPAddr is the listen address of the discovery HTTP server.
	HTTPAddr string `json:"http_addr"`
	// PublicURL is the externally reachable WebTransport URL handed out
	// by the discovery endpoint.
	PublicURL string `json:"public_url"`

	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`

	TickIntervalMs int `json:"tick_interval_ms"`
	MaxClients     int `json:"max_clients"`
	MaxFrameBytes  int `json:"max_frame_bytes"`

	TokenSecret   string `json:"token_secret"`
	TokenIssuer   string `json:"token_issuer"`
	TokenTTLHours int    `json:"token_ttl_hours"`
}

// Default returns the development configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		GameAddr:       "0.0.0.0:4433",
		HTTPAddr:       "0.0.0.0:8080",
		PublicURL:      "https://localhost:4433/game",
		CertFile:       "dev_cert.pem",
		KeyFile:        "dev_key.pem",
		TickIntervalMs: 50,
		MaxClients:     256,
		MaxFrameBytes:  64 * 1024,
		TokenSecret:    "dev-secret-change-me",
		TokenIssuer:    "hiddencard",
		TokenTTLHours:  24,
	}
}

// TickInterval returns the tick period as a duration.
func (c *ServerConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// TokenTTL returns the session token lifetime as a duration.
func (c *ServerConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

var (
	cfg      *ServerConfig
	loadOnce sync.Once
	loadErr  error
)

// Load reads the configuration once. A missing path is not an error; the
// defaults plus environment overrides apply.
func Load(path string) (*ServerConfig, error) {
	loadOnce.Do(func() {
		c := Default()
		if path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				loadErr = fmt.Errorf("read server config: %w", err)
				return
			}
			if err := json.Unmarshal(data, c); err != nil {
				loadErr = fmt.Errorf("unmarshal server config: %w", err)
				return
			}
		}
		applyEnv(c)
		cfg = c
	})
	return cfg, loadErr
}

// Get returns the loaded configuration, or nil before Load.
func Get() *ServerConfig { return cfg }

func applyEnv(c *ServerConfig) {
	envString("HIDDENCARD_GAME_ADDR", &c.GameAddr)
	envString("HIDDENCARD_HTTP_ADDR", &c.HTTPAddr)
	envString("HIDDENCARD_PUBLIC_URL", &c.PublicURL)
	envString("HIDDENCARD_CERT_FILE", &c.CertFile)
	envString("HIDDENCARD_KEY_FILE", &c.KeyFile)
	envString("HIDDENCARD_TOKEN_SECRET", &c.TokenSecret)
	envString("HIDDENCARD_TOKEN_ISSUER", &c.TokenIssuer)
	envInt("HIDDENCARD_TICK_INTERVAL_MS", &c.TickIntervalMs)
	envInt("HIDDENCARD_MAX_CLIENTS", &c.MaxClients)
	envInt("HIDDENCARD_MAX_FRAME_BYTES", &c.MaxFrameBytes)
	envInt("HIDDENCARD_TOKEN_TTL_HOURS", &c.TokenTTLHours)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
