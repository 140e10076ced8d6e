package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/Temutjin2k/cab-billing-system/config"
	"github.com/Temutjin2k/cab-billing-system/internal/app"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
)

func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	// Load .env if present, real environment wins.
	_ = godotenv.Load()

	ctx := context.Background()
	log := logger.InitLogger("cab-billing", logger.LevelDebug)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		os.Exit(1)
	}

	log = logger.InitLogger("cab-billing", cfg.Log.Level)

	// Printing configuration
	config.PrintConfig(cfg)

	// Creating application
	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	// Running the application
	if err = application.Start(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
