package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice-service/internal/auth"
	"backoffice-service/internal/config"
	"backoffice-service/internal/db"
	httphandler "backoffice-service/internal/http"
	"backoffice-service/internal/http/middleware"
	"backoffice-service/internal/logger"
	"backoffice-service/internal/repository"
	"backoffice-service/internal/service"
	"backoffice-service/internal/tracing"
	"backoffice-service/internal/upstream"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log, cfg.Tracing.OTLPEndpoint, "backoffice-service", cfg.Environment)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise tracing")
	}

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	userRepo := repository.NewUserRepository(database)
	planRepo := repository.NewPlanRepository(database)
	routeRepo := repository.NewRouteRepository(database)
	dispatchRepo := repository.NewDispatchRepository(database)

	client := upstream.New(cfg.Upstream, log)
	authService := service.NewAuthService(userRepo, auth.NewParser(cfg.Auth.JWTSecret), cfg.Auth.LoginDelay, log)
	driverService := service.NewDriverService(dispatchRepo, log)

	if cfg.Seed.DriversCSVPath != "" {
		if _, err := driverService.Seed(ctx, cfg.Seed.DriversCSVPath); err != nil {
			log.Error().Err(err).Str("file", cfg.Seed.DriversCSVPath).Msg("driver seed failed")
		}
	}

	handler := httphandler.NewHandler(httphandler.Services{
		Auth:     authService,
		Users:    service.NewUserService(userRepo),
		Plans:    service.NewPlanService(planRepo, client),
		Routes:   service.NewRouteService(routeRepo, client),
		Dispatch: service.NewDispatchService(dispatchRepo, client),
		Drivers:  driverService,
	}, cfg.IsProduction(), log)

	router, err := httphandler.NewRouter(handler, middleware.Auth(authService), httphandler.RouterConfig{
		Environment: cfg.Environment,
		Origins:     cfg.HTTP.Origins,
		Ping: func(ctx context.Context) error {
			return db.HealthCheck(ctx, database)
		},
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting backoffice service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := db.Close(database); err != nil {
		log.Error().Err(err).Msg("close database")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("flush traces")
	}
}
