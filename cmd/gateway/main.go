package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/carrier-gateway/internal/api"
	"github.com/99minutos/carrier-gateway/internal/carriers/fedex"
	"github.com/99minutos/carrier-gateway/internal/carriers/ups"
	"github.com/99minutos/carrier-gateway/internal/core/service"
	"github.com/99minutos/carrier-gateway/internal/infrastructure/config"
	"github.com/99minutos/carrier-gateway/internal/infrastructure/queue"
	"github.com/99minutos/carrier-gateway/internal/transport"
	"github.com/99minutos/carrier-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client := transport.NewClient(0)
	recorder := transport.NewLogRecorder(log)
	registry := service.NewRegistry()

	if cfg.FedEx.Configured() {
		adapter, err := fedex.New(fedex.Credentials{
			Key:      cfg.FedEx.Key,
			Password: cfg.FedEx.Password,
			Account:  cfg.FedEx.Account,
			Meter:    cfg.FedEx.Meter,
		}, client, log, fedex.WithRecorder(recorder))
		if err != nil {
			log.Fatal().Err(err).Msg("fedex adapter")
		}
		registry.Register(adapter)
	}
	if cfg.UPS.Configured() {
		adapter, err := ups.New(ups.Credentials{
			AccessLicenseKey:   cfg.UPS.LicenseKey,
			UserID:             cfg.UPS.UserID,
			Password:           cfg.UPS.Password,
			AccountNumber:      cfg.UPS.AccountNumber,
			AccountCountryCode: cfg.UPS.AccountCountryCode,
		}, client, log, ups.WithRecorder(recorder))
		if err != nil {
			log.Fatal().Err(err).Msg("ups adapter")
		}
		registry.Register(adapter)
	}
	log.Info().Strs("carriers", registry.Names()).Bool("test", cfg.CarrierTest).Msg("carriers registered")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := queue.NewDispatcher(0, registry, queue.NewLogSink(log), log)
	dispatcher.Start(ctx)

	e := api.NewRouter(registry, dispatcher, cfg.JWTSecret, cfg.CarrierTest, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
