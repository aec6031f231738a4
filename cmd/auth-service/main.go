package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	_ "github.com/energy-platform/mesh/docs"
	"github.com/energy-platform/mesh/internal/api"
	"github.com/energy-platform/mesh/internal/core/service"
	mongodb "github.com/energy-platform/mesh/internal/infrastructure/db/mongo"
	redisdb "github.com/energy-platform/mesh/internal/infrastructure/db/redis"
	infrahttp "github.com/energy-platform/mesh/internal/infrastructure/http"
	"github.com/energy-platform/mesh/internal/infrastructure/peer"
	"github.com/energy-platform/mesh/internal/infrastructure/token"
	"github.com/energy-platform/mesh/internal/pkg/config"
	"github.com/energy-platform/mesh/internal/pkg/server"
	"github.com/energy-platform/mesh/pkg/logger"
)

const serviceName = "auth-service"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.Production(), Service: serviceName})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	codec, err := token.NewCodec(token.Config{Secret: cfg.JWT.Secret, TTL: cfg.JWT.TTL})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid JWT configuration")
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	credentials := mongodb.NewCredentialRepository(db)
	if err := mongodb.EnsureIndexes(ctx, credentials); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	httpClient := peer.NewHTTPClient(cfg.Peers.Timeout)
	dispatcher := peer.NewDispatcher(
		peer.NewProfileClient(cfg.Peers.UserServiceURL, httpClient),
		cfg.Peers.Workers, cfg.Peers.QueueSize, log,
	)
	dispatcher.Start(context.Background())

	opts := []service.AuthOption{service.WithProfileBridge(dispatcher)}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		opts = append(opts, service.WithLoginThrottle(redisdb.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)))
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	authService := service.NewAuthenticator(credentials, codec, log, opts...)

	e := api.NewAuthRouter(infrahttp.Options{
		Service:    serviceName,
		Log:        log,
		Mongo:      db,
		Redis:      rdb,
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
		Swagger:    !cfg.Production(),
	}, authService, service.NewTokenValidator(codec))

	serveErr := server.Serve(ctx, e, cfg.Port, log)

	log.Info().Msg("draining profile bridge")
	dispatcher.Close()

	disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(disconnectCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	if serveErr != nil {
		log.Error().Err(serveErr).Msg("server error")
		os.Exit(1)
	}
	log.Info().Msg("server exited properly")
}
