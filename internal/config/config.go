package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Patrimonio"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Password string `envconfig:"APP_PASSWORD" default:""`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" default:""`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
	}

	Sheets struct {
		CredentialsFile string `envconfig:"GOOGLE_CREDENTIALS_FILE" default:"service-account.json"`
		Workbook        string `envconfig:"SHEETS_WORKBOOK" default:"Planilha de organizacao financeira"`
		Tab             string `envconfig:"SHEETS_TAB" default:"Patrimonio"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"patrimonio"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Credentials reads the service-account JSON blob from disk.
func (c *Config) Credentials() ([]byte, error) {
	data, err := os.ReadFile(c.Sheets.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	return data, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
