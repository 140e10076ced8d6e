package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/cab-billing-system/config"
	"github.com/Temutjin2k/cab-billing-system/internal/adapter/http/handler"
	"github.com/Temutjin2k/cab-billing-system/internal/adapter/http/middleware"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
	wrap "github.com/Temutjin2k/cab-billing-system/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

const serviceName = "cab-billing"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	bill   *handler.Bill
	ride   *handler.Ride
	health *handler.Health
}

func New(
	cfg config.Config,
	billService handler.BillService,
	rideService handler.RideService,
	logger logger.Logger,
) (*API, error) {
	if billService == nil || rideService == nil {
		return nil, errors.New("bill and ride services are required")
	}

	handlers := &handlers{
		bill:   handler.NewBill(billService, logger),
		ride:   handler.NewRide(rideService, logger),
		health: handler.NewHealth(serviceName, logger),
	}

	mid := middleware.NewMiddleware(logger)

	api := &API{
		mux:    http.NewServeMux(),
		routes: handlers,
		m:      mid,
		addr:   fmt.Sprintf(serverIPAddress, cfg.Server.Host, cfg.Server.Port),
		cfg:    cfg,
		log:    logger,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	setupRoutes(api.mux, api.routes)

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, types.ActionServerStop)

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, types.ActionServerStart)
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Metrics(serviceName)(a.mux))))
}
