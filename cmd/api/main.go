package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/database/postgres"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/repository"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/stream"
	"github.com/startfranchise/expo-leaderboard-api/internal/api"
	"github.com/startfranchise/expo-leaderboard-api/internal/config"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/internal/scheduler"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/branding"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/dealing"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/gating"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/reconciling"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level: %s, falling back to 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Log level set to: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	dealRepo := repository.NewDealRepository(pgConn)
	outletRepo := repository.NewOutletRepository(pgConn)
	brandRepo := repository.NewBrandRepository(pgConn)

	dealEvents := stream.NewBroker[domain.DealEvent](cfg.Leaderboard.EventBufferSize)
	defer dealEvents.Close()

	signals := stream.NewBroker[domain.Signal](cfg.Leaderboard.EventBufferSize)
	defer signals.Close()

	dealService := dealing.NewService(dealRepo, outletRepo, brandRepo, dealEvents)
	outletService := gating.NewService(outletRepo)
	brandService := branding.NewService(brandRepo)

	reconciler := reconciling.NewService(dealService, signals, cfg)
	if err := reconciler.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to load the leaderboard from storage")
	}
	defer reconciler.Stop()

	resyncService := scheduler.NewLeaderboardResyncService(reconciler, cfg)
	if err := resyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Failed to start the leaderboard resync scheduler")
	} else {
		logrus.Info("Leaderboard resync scheduler started successfully")
	}

	server, err := api.New(
		cfg,
		reconciler,
		dealService,
		outletService,
		brandService,
		signals,
		resyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to ping PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established successfully")
	return conn
}
