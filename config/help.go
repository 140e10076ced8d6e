package config

import "fmt"

// PrintHelp prints usage information for the billing service.
func PrintHelp() {
	fmt.Println(`Cab Billing Service

Usage:
  billing [flags]

Flags:
  -config-path string   Path to the config yaml file (default "config.yaml")
  -help                 Show this message

Configuration is read from the yaml file and may be overridden with
environment variables (see config/config.go for the full list).`)
}

// PrintConfig prints the effective configuration, omitting secrets.
func PrintConfig(cfg *Config) {
	fmt.Printf("server:    %s:%s\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("database:  %s:%s/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	fmt.Printf("rabbitmq:  %s:%s (queue %s)\n", cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.EmailQueue)
	fmt.Printf("smtp:      %s:%d\n", cfg.SMTP.Host, cfg.SMTP.Port)
	fmt.Printf("numbering: %s\n", cfg.Billing.Numbering)
}
