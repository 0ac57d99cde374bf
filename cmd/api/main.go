package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentdesk/internal/app"
	"rentdesk/internal/logger"
	"rentdesk/internal/server"
)

const shutdownGrace = 5 * time.Second

func main() {
	log := logger.New("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to initialize application", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close application", err)
		}
	}()

	apiServer, err := server.New(application)
	if err != nil {
		log.Er("failed to initialize server", err)
		os.Exit(1)
	}

	if err := application.StartScheduler(context.Background()); err != nil {
		log.Er("failed to start scheduler", err)
	}

	go func() {
		if err := apiServer.Listen(application.Config.ServerPort); err != nil {
			log.Er("server stopped", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(application, apiServer, log)
}

// waitForShutdown blocks until SIGINT or SIGTERM, then drains in-flight
// requests before closing the database and cache connections.
func waitForShutdown(application *app.App, apiServer *server.AppServer, log logger.Logger) {
	log = log.Function("waitForShutdown")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutdown signal received, draining requests", "grace", shutdownGrace.String())

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := apiServer.FiberApp.ShutdownWithContext(drainCtx); err != nil {
		log.Er("server forced to shut down", err)
	}

	if err := application.Database.Close(); err != nil {
		log.Er("failed to close database", err)
	}

	log.Info("Shutdown complete")
}
