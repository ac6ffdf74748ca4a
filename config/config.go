package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD" default:""`
	DBName      string `envconfig:"DB_NAME" default:"ecommerce"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	AdminKey  string `envconfig:"ADMIN_API_KEY" required:"true"`

	ChapaAPIURL        string        `envconfig:"CHAPA_API_URL" default:"https://api.chapa.co/v1/transaction/initialize"`
	ChapaSecretKey     string        `envconfig:"CHAPA_SECRET_KEY" required:"true"`
	ChapaWebhookSecret string        `envconfig:"CHAPA_WEBHOOK_SECRET" required:"true"`
	ChapaCallbackURL   string        `envconfig:"CHAPA_CALLBACK_URL" default:""`
	ChapaReturnURL     string        `envconfig:"CHAPA_RETURN_URL" default:""`
	ChapaTimeout       time.Duration `envconfig:"CHAPA_TIMEOUT" default:"15s"`
	Currency           string        `envconfig:"CURRENCY" default:"ETB"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN builds the postgres connection string when DATABASE_URL is not set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}
