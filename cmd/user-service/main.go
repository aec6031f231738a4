package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/energy-platform/mesh/docs"
	"github.com/energy-platform/mesh/internal/api"
	"github.com/energy-platform/mesh/internal/core/service"
	mongodb "github.com/energy-platform/mesh/internal/infrastructure/db/mongo"
	infrahttp "github.com/energy-platform/mesh/internal/infrastructure/http"
	"github.com/energy-platform/mesh/internal/infrastructure/peer"
	"github.com/energy-platform/mesh/internal/pkg/config"
	"github.com/energy-platform/mesh/internal/pkg/server"
	"github.com/energy-platform/mesh/pkg/logger"
)

const serviceName = "user-service"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.Production(), Service: serviceName})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	profiles := mongodb.NewProfileRepository(db)
	if err := mongodb.EnsureIndexes(ctx, profiles); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	devices := peer.NewDeviceClient(cfg.Peers.DeviceServiceURL, peer.NewHTTPClient(cfg.Peers.Timeout))

	e := api.NewUserRouter(infrahttp.Options{
		Service:    serviceName,
		Log:        log,
		Mongo:      db,
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
		Swagger:    !cfg.Production(),
	}, service.NewProfileService(profiles, devices, log))

	serveErr := server.Serve(ctx, e, cfg.Port, log)

	disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(disconnectCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}

	if serveErr != nil {
		log.Error().Err(serveErr).Msg("server error")
		os.Exit(1)
	}
	log.Info().Msg("server exited properly")
}
