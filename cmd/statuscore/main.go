package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/statuscore-dev/statuscore/db"
	"github.com/statuscore-dev/statuscore/internal/alerting"
	"github.com/statuscore-dev/statuscore/internal/auth"
	"github.com/statuscore-dev/statuscore/internal/handlers"
	"github.com/statuscore-dev/statuscore/internal/incidents"
	"github.com/statuscore-dev/statuscore/internal/probes"
	"github.com/statuscore-dev/statuscore/internal/registry"
	"github.com/statuscore-dev/statuscore/internal/router"
	"github.com/statuscore-dev/statuscore/internal/scheduler"
	"github.com/statuscore-dev/statuscore/internal/sla"
	"github.com/statuscore-dev/statuscore/internal/status"
	"github.com/statuscore-dev/statuscore/internal/store/gormstore"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded", zap.Error(err))
	}

	if err := auth.InitJWTSecret(); err != nil {
		logger.Fatal("jwt setup failed", zap.Error(err))
	}

	conn, err := db.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	dataStore := gormstore.New(conn)

	reg := registry.NewService(dataStore, dataStore, dataStore, logger)
	engine := alerting.NewEngine(dataStore, logger)
	tracker := incidents.NewTracker(dataStore, incidents.DefaultSLATargets, logger)
	reporter := sla.NewReporter(dataStore, dataStore)

	checkers := []status.ComponentChecker{
		probes.DatabaseChecker{DB: conn},
	}
	endpointComponents := []struct {
		component string
		envVar    string
	}{
		{"application", "APP_HEALTH_URL"},
		{"storage", "STORAGE_HEALTH_URL"},
		{"network", "NETWORK_HEALTH_URL"},
		{"external_services", "EXTERNAL_HEALTH_URL"},
	}
	for _, ec := range endpointComponents {
		if url := os.Getenv(ec.envVar); url != "" {
			checkers = append(checkers, probes.EndpointChecker{Component: ec.component, URL: url})
		}
	}

	aggregator := status.NewAggregator(reg, engine, tracker, checkers, status.DefaultMonitorThresholds)

	sched := scheduler.New(dataStore, reg, engine, logger).WithRegion(os.Getenv("REGION"))

	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	handler := handlers.New(reg, engine, tracker, aggregator, reporter, sched, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
		logger.Info("PORT not set, defaulting to 3000")
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router.New(handler),
	}

	go func() {
		logger.Info("server listening", zap.String("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
