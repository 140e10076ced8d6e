package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Temutjin2k/cab-billing-system/config"
	"github.com/Temutjin2k/cab-billing-system/pkg/postgres"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
)

// Small connectivity checker: connects with the configured DSN and reports
// row counts so a fresh deployment can be verified without curl.
func main() {
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	client, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Pool.Close()

	for _, table := range []string{"customers", "bills", "rides"} {
		var count int64
		if err := client.Pool.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&count); err != nil {
			log.Fatalf("table %s: %v", table, err)
		}
		log.Printf("table %s: %d rows", table, count)
	}
}
