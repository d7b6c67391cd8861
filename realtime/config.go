package realtime

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport names accepted in Config.Transport.
const (
	TransportAuto      = "auto"
	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
	TransportNone      = "none"
)

// DefaultWindowSize is the number of points kept per chart series.
const DefaultWindowSize = 60

// Config controls how the SDK connects.
type Config struct {
	// URL is the server base, e.g. "http://localhost:8080". The stream
	// endpoint is URL + "/stream/{room}".
	URL              string        `yaml:"url"`
	Transport        string        `yaml:"transport"`
	WindowSize       int           `yaml:"window_size"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`   // websocket idle limit, 0 disables
	RetryInterval    time.Duration `yaml:"retry_interval"` // until the server sends retry:
	LogLevel         string        `yaml:"log_level"`
	LogJSON          bool          `yaml:"log_json"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:              "http://localhost:8080",
		Transport:        TransportAuto,
		WindowSize:       DefaultWindowSize,
		HandshakeTimeout: 10 * time.Second,
		RetryInterval:    3 * time.Second,
		LogLevel:         "info",
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from REALTIME_* environment variables.
// Unparseable values keep the current setting.
func (c *Config) ApplyEnv() {
	c.URL = env("REALTIME_URL", c.URL)
	c.Transport = strings.ToLower(env("REALTIME_TRANSPORT", c.Transport))
	c.WindowSize = envInt("REALTIME_WINDOW_SIZE", c.WindowSize)
	c.HandshakeTimeout = envDuration("REALTIME_HANDSHAKE_TIMEOUT", c.HandshakeTimeout)
	c.ReadTimeout = envDuration("REALTIME_READ_TIMEOUT", c.ReadTimeout)
	c.RetryInterval = envDuration("REALTIME_RETRY_INTERVAL", c.RetryInterval)
	c.LogLevel = strings.ToLower(env("REALTIME_LOG_LEVEL", c.LogLevel))
	c.LogJSON = envBool("REALTIME_LOG_JSON", c.LogJSON)
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return NewError(ErrorInvalidConfig, "empty URL")
	}
	if _, err := url.Parse(c.URL); err != nil {
		return WrapError(ErrorInvalidConfig, "invalid URL", err)
	}
	if c.WindowSize <= 0 {
		return NewError(ErrorInvalidConfig, fmt.Sprintf("window size must be positive, got %d", c.WindowSize))
	}
	switch c.Transport {
	case "", TransportAuto, TransportSSE, TransportWebSocket, TransportNone:
	default:
		return NewError(ErrorInvalidConfig, fmt.Sprintf("unknown transport %q", c.Transport))
	}
	if c.RetryInterval < 0 || c.HandshakeTimeout < 0 || c.ReadTimeout < 0 {
		return NewError(ErrorInvalidConfig, "durations must not be negative")
	}
	return nil
}

func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
