package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/stream"
	"github.com/startfranchise/expo-leaderboard-api/internal/api/handler"
	"github.com/startfranchise/expo-leaderboard-api/internal/api/handler/router"
	"github.com/startfranchise/expo-leaderboard-api/internal/config"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/internal/scheduler"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/branding"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/dealing"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/gating"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/reconciling"
	"github.com/startfranchise/expo-leaderboard-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	reconciler *reconciling.Service,
	dealService dealing.DealService,
	outletService gating.OutletService,
	brandService branding.BrandService,
	signalBroker *stream.Broker[domain.Signal],
	resyncService *scheduler.LeaderboardResyncService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		LeaderboardResyncService: resyncService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Leaderboard(reconciler)...),
		router.WithRoutes(handler.Deals(dealService, outletService)...),
		router.WithRoutes(handler.Outlets(outletService)...),
		router.WithRoutes(handler.Brands(brandService)...),
		router.WithRoutes(handler.Form(outletService, brandService)...),
		router.WithRoutes(handler.RealtimeStream(reconciler, dealService, signalBroker)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Error while running server")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Interrupt signal received")
	case <-ctx.Done():
		logrus.Info("Application context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Starting graceful server shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Error during server shutdown")
		return err
	}

	logrus.Info("Server stopped successfully")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("HTTP server stopped successfully")
	return nil
}
