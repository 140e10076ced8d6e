package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/Temutjin2k/cab-billing-system/config"
	"github.com/Temutjin2k/cab-billing-system/internal/adapter/email"
	"github.com/Temutjin2k/cab-billing-system/internal/adapter/http/server"
	adapterpg "github.com/Temutjin2k/cab-billing-system/internal/adapter/postgres"
	adapterrabbit "github.com/Temutjin2k/cab-billing-system/internal/adapter/rabbit"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/internal/service/billing"
	"github.com/Temutjin2k/cab-billing-system/internal/service/ride"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
	wrap "github.com/Temutjin2k/cab-billing-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/cab-billing-system/pkg/postgres"
	"github.com/Temutjin2k/cab-billing-system/pkg/rabbit"
	"github.com/Temutjin2k/cab-billing-system/pkg/trm"
)

type App struct {
	api        *server.API
	db         *postgres.PostgreDB
	broker     *rabbit.RabbitMQ
	emailQueue *adapterrabbit.EmailQueue
	rides      *ride.Service

	cfg config.Config
	log logger.Logger
}

// NewApplication wires the storage, broker, services and HTTP server together.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	// Postgres
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	txManager := trm.New(db.Pool)

	// Repositories
	billRepo := adapterpg.NewBillRepo(db.Pool)
	rideRepo := adapterpg.NewRideRepo(db.Pool)
	customerRepo := adapterpg.NewCustomerRepo(db.Pool)
	sequenceRepo := adapterpg.NewSequenceRepo(db.Pool)

	// Invoice numbering
	numbers, err := billing.NewNumberGenerator(cfg.Billing.Numbering, sequenceRepo, billRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to configure invoice numbering: %w", err)
	}

	// Fare rates
	rates, err := parseRates(cfg.Billing)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fare rates: %w", err)
	}

	// RabbitMQ
	broker, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	emailQueue, err := adapterrabbit.NewEmailQueue(broker, cfg.RabbitMQ.EmailQueue, log)
	if err != nil {
		return nil, fmt.Errorf("failed to declare email queue: %w", err)
	}

	sender := email.NewSender(cfg.SMTP, log)

	// Services
	billService := billing.NewService(billRepo, numbers, txManager, log)
	rideService := ride.NewService(rideRepo, customerRepo, txManager, emailQueue, sender, rates, log)

	// HTTP server
	api, err := server.New(cfg, billService, rideService, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create http server: %w", err)
	}

	return &App{
		api:        api,
		db:         db,
		broker:     broker,
		emailQueue: emailQueue,
		rides:      rideService,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Start runs the HTTP server and the email consumer, then blocks until
// a shutdown signal arrives or a component fails.
func (a *App) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	if err := a.emailQueue.StartConsumer(ctx, a.rides); err != nil {
		return fmt.Errorf("failed to start email consumer: %w", err)
	}

	a.api.Run(ctx, errCh)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case errRun := <-errCh:
		return errRun
	case s := <-shutdownCh:
		ctx = wrap.WithAction(ctx, types.ActionAppShutdown)
		a.log.Info(ctx, "received signal, shutting down", "signal", s.String())
		a.Close(ctx)
	}

	return nil
}

// Close releases every component in reverse start order.
func (a *App) Close(ctx context.Context) {
	if err := a.api.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown http server", err)
	}

	if err := a.broker.Close(ctx); err != nil {
		a.log.Error(ctx, "failed to close rabbitmq connection", err)
	}

	a.db.Pool.Close()
}

func parseRates(cfg config.BillingConfig) (ride.Rates, error) {
	base, err := decimal.NewFromString(cfg.BaseRate)
	if err != nil {
		return ride.Rates{}, fmt.Errorf("invalid base rate %q: %w", cfg.BaseRate, err)
	}

	night, err := decimal.NewFromString(cfg.NightRate)
	if err != nil {
		return ride.Rates{}, fmt.Errorf("invalid night rate %q: %w", cfg.NightRate, err)
	}

	return ride.Rates{Base: base, Night: night}, nil
}
