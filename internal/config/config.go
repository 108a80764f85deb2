package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration.
type Config struct {
	APIBaseURL   string
	APITimeout   time.Duration
	LogLevel     string
	LogFormat    string
	LogFile      string
	RedisURL     string
	DatabaseURL  string
	MaxDBConns   int32
	SessionFile  string
	SessionTTL   time.Duration
	DeviceID     string
	ProctorWSURL string
	// CharacterLimit bounds free-text answers when the attempt does not carry its own limit.
	CharacterLimit int
	GuardWarning   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		APITimeout:     time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 15)) * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		LogFile:        getEnv("LOG_FILE", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MaxDBConns:     int32(getEnvInt("MAX_DB_CONNS", 4)),
		SessionFile:    getEnv("SESSION_FILE", defaultSessionFile()),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_HOURS", 12)) * time.Hour,
		DeviceID:       getEnv("DEVICE_ID", defaultDeviceID()),
		ProctorWSURL:   getEnv("PROCTOR_WS_URL", ""),
		CharacterLimit: getEnvInt("CHARACTER_LIMIT", 200),
		GuardWarning:   time.Duration(getEnvInt("GUARD_WARNING_SECONDS", 3)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// defaultSessionFile places the session next to other per-user config.
// Falls back to the working directory when no config dir is available.
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".examsetu-session.json"
	}
	return filepath.Join(dir, "examsetu", "session.json")
}

func defaultDeviceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "local"
	}
	return strings.ToLower(host)
}
