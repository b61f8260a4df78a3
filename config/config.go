package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the service configuration, populated from the environment.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":3002"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	StorageType      string `env:"STORAGE_TYPE" envDefault:"memory"`
	LocalStoragePath string `env:"LOCAL_STORAGE_PATH" envDefault:"./data"`
	DataSourceName   string `env:"DATA_SOURCE_NAME" envDefault:"altarmaker.db"`
	S3Bucket         string `env:"S3_BUCKET_NAME"`

	JWTSecret          string `env:"JWT_SECRET"`
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL  string `env:"GITHUB_REDIRECT_URL"`
	FrontendURL        string `env:"FRONTEND_URL" envDefault:"/"`
}

// Load reads .env (when present) and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
