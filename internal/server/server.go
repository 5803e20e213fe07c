// Package server boots every subsystem and runs the HTTP server until a
// shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/app/jobs"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/internal/kernel"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	grpcserver "github.com/shashiranjanraj/bazaar/pkg/grpc"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/notification"
	"github.com/shashiranjanraj/bazaar/pkg/queue"
	"github.com/shashiranjanraj/bazaar/pkg/schedule"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

const (
	queueWorkers = 4
	staleCartAge = 30 * 24 * time.Hour
)

// Start boots the store and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}
	if err := database.Connect(); err != nil {
		return fmt.Errorf("server: database: %w", err)
	}
	if err := cache.Connect(); err != nil {
		// The store serves from the database without Redis; caching and
		// token revocation degrade until it comes back.
		logger.Warn("server: redis unavailable", "error", err)
	}
	storage.Connect()
	notification.SetSlackWebhook(config.Get("SLACK_WEBHOOK_URL", ""))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootQueue(ctx)
	events.Register()
	bootSchedule(ctx)

	grpcSrv := bootGRPC()
	defer grpcserver.Stop(grpcSrv)

	httpKernel := kernel.NewHTTPKernel()
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           httpKernel.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// bootQueue wires the queue driver, registers job types, and starts workers.
func bootQueue(ctx context.Context) {
	jobs.Register()
	queue.UseDB(database.DB)
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, queueWorkers)
}

// bootSchedule registers recurring tasks and starts the scheduler.
func bootSchedule(ctx context.Context) {
	carts := services.NewCartService()

	schedule.Daily().Name("carts:prune").WithoutOverlapping().Run(func() {
		removed, err := carts.PruneStale(staleCartAge)
		if err != nil {
			logger.Error("schedule: cart prune failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Info("schedule: pruned stale carts", "removed", removed)
		}
	})

	schedule.Start(ctx)
}

// bootGRPC starts the ops gRPC server (health + reflection) when a port is
// configured.
func bootGRPC() *grpc.Server {
	port := config.GRPCPort()
	if port == "" {
		return nil
	}
	grpcserver.SetReadiness(database.Healthy)
	srv, _, err := grpcserver.Start(port)
	if err != nil {
		logger.Error("server: grpc failed to start", "error", err)
		return nil
	}
	return srv
}
