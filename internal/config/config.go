// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr      string
	DBPath          string
	Codec           string
	SecretKey       string
	ShutdownTimeout time.Duration
}

// HasSecretKey returns true when a codec passphrase is configured. The
// composition root rejects encrypting codecs without one.
func (c *Config) HasSecretKey() bool {
	return c.SecretKey != ""
}

// LoadEnvFile populates the process environment from a dotenv file. Variables
// already set in the environment win over the file. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables and returns a validated Config.
// Optional variables with defaults: CREDVAULT_LISTEN_ADDR (127.0.0.1:8080),
// CREDVAULT_DB_PATH (credvault.db), CREDVAULT_CODEC (empty, the codec default),
// CREDVAULT_SHUTDOWN_TIMEOUT (10s). CREDVAULT_CODEC and CREDVAULT_SECRET_KEY
// are passed through as given; the codec adapter decides which names exist
// and which of them need a key.
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("CREDVAULT_LISTEN_ADDR"); ok && v != "" {
		listenAddr = v
	}

	dbPath := "credvault.db"
	if v, ok := os.LookupEnv("CREDVAULT_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	codecName := os.Getenv("CREDVAULT_CODEC")
	secretKey := os.Getenv("CREDVAULT_SECRET_KEY")

	shutdownTimeout := 10 * time.Second
	if v, ok := os.LookupEnv("CREDVAULT_SHUTDOWN_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CREDVAULT_SHUTDOWN_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("CREDVAULT_SHUTDOWN_TIMEOUT must be positive, got %s", parsed)
		}
		shutdownTimeout = parsed
	}

	return &Config{
		ListenAddr:      listenAddr,
		DBPath:          dbPath,
		Codec:           codecName,
		SecretKey:       secretKey,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}
