package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	PostgresURL    string
	JWTKey         string
	AllowedOrigins []string
	Port           string
	GinMode        string
}

// Load reads the configuration from environment variables. PostgresURL and
// JWTKey are mandatory; everything else has a sensible default.
func Load() (Config, error) {
	cfg := Config{
		Port:    "5000",
		GinMode: os.Getenv("GIN_MODE"),
	}

	var exists bool
	cfg.PostgresURL, exists = os.LookupEnv("POSTGRES_URL")
	if !exists {
		return Config{}, fmt.Errorf("missing POSTGRES_URL")
	}

	cfg.JWTKey, exists = os.LookupEnv("JWT_KEY")
	if !exists {
		return Config{}, fmt.Errorf("missing JWT_KEY")
	}

	if origins, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	if port, ok := os.LookupEnv("PORT"); ok {
		cfg.Port = port
	}

	return cfg, nil
}
