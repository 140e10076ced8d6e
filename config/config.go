package config

import (
	"fmt"
	"time"

	"github.com/Temutjin2k/cab-billing-system/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Server   ServerConfig
		Log      LogConfig
		Database DatabaseConfig
		RabbitMQ RabbitMQConfig
		SMTP     SMTPConfig
		Billing  BillingConfig
	}

	ServerConfig struct {
		Host string `env:"SERVER_HOST" default:"0.0.0.0"`
		Port string `env:"SERVER_PORT" default:"3000"`
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"DEBUG"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"cab_user"`
		Password string `env:"DATABASE_PASSWORD" default:"cab_pass"`
		Database string `env:"DATABASE_DATABASE" default:"cab_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`

		EmailQueue string `env:"RABBITMQ_EMAIL_QUEUE" default:"invoice_emails"`
	}

	SMTPConfig struct {
		Host     string `env:"SMTP_HOST" default:"localhost"`
		Port     int    `env:"SMTP_PORT" default:"587"`
		Username string `env:"SMTP_USERNAME"`
		Password string `env:"SMTP_PASSWORD"`
		From     string `env:"SMTP_FROM" default:"billing@cab.local"`
	}

	BillingConfig struct {
		// Numbering selects the invoice numbering strategy:
		// sequence (database sequence), daily (per-day count) or yearly (per-year count).
		Numbering string `env:"BILLING_NUMBERING" default:"sequence"`

		// Per-km rates used for ride fares, in currency units.
		BaseRate  string `env:"BILLING_BASE_RATE" default:"12.50"`
		NightRate string `env:"BILLING_NIGHT_RATE" default:"3.00"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
