package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Fetcher FetcherConfig
	Browser BrowserConfig
	Room    RoomConfig
	Server  ServerConfig
	Logging LoggingConfig
}

type FetcherConfig struct {
	Retries   int
	Timeout   time.Duration
	UserAgent string
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
}

type RoomConfig struct {
	Username      string
	Password      string
	LinkTimeout   time.Duration
	LoginTimeout  time.Duration
	ReviewTimeout time.Duration
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Fetcher: FetcherConfig{
			Retries:   getIntOrDefault("FETCH_RETRIES", 3),
			Timeout:   getDurationOrDefault("FETCH_TIMEOUT", 20*time.Second),
			UserAgent: getEnvOrDefault("FETCH_USER_AGENT", defaultUserAgent()),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1280),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 720),
		},
		Room: RoomConfig{
			Username:      os.Getenv("RAKUTEN_ROOM_USERNAME"),
			Password:      os.Getenv("RAKUTEN_ROOM_PASSWORD"),
			LinkTimeout:   getDurationOrDefault("ROOM_LINK_TIMEOUT", 15*time.Second),
			LoginTimeout:  getDurationOrDefault("ROOM_LOGIN_TIMEOUT", 15*time.Second),
			ReviewTimeout: getDurationOrDefault("ROOM_REVIEW_TIMEOUT", 20*time.Second),
		},
		Server: ServerConfig{
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Fetcher.Retries < 1 {
		return fmt.Errorf("FETCH_RETRIES must be at least 1")
	}

	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}

	if c.Room.LinkTimeout <= 0 || c.Room.LoginTimeout <= 0 || c.Room.ReviewTimeout <= 0 {
		return fmt.Errorf("ROOM timeouts must be positive")
	}

	return nil
}

// HasCredentials reports whether both Rakuten credentials were supplied.
func (c *RoomConfig) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func defaultUserAgent() string {
	return "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
}
