package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr    string `env:"SERVER_ADDR" envDefault:":8080"`
	DBPath        string `env:"DB_PATH" envDefault:"./questlog.db"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogDir enables rotating file output when set; stdout only otherwise.
	LogDir        string `env:"LOG_DIR"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"20"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

// Load reads an optional .env file, then the environment. A missing .env is
// fine; a malformed one is not.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
