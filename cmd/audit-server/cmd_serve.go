// cmd/audit-server/cmd_serve.go
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

	"promptprofit-audit/internal/audit/questionnaire"
	"promptprofit-audit/internal/common/config"
	"promptprofit-audit/internal/common/database"
	"promptprofit-audit/internal/common/logger"
	"promptprofit-audit/internal/common/observability"
	"promptprofit-audit/internal/server"
	"promptprofit-audit/web"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the audit wizard and submission API",
		Long: `Serve the audit wizard and submission API.

The API listens on server.port. Prometheus metrics are exposed on
server.metrics_port at /metrics (0 disables the listener). When
database.redis.address is set, Redis backs the per-recipient submission
throttle and the /ready probe.

SIGINT or SIGTERM drains in-flight requests for up to 30 seconds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := config.ValidateForServing(cfg); err != nil {
				return &ConfigError{Err: err}
			}

			zapLog, log := opts.newLogger(cfg.Logging)
			defer zapLog.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

// serve runs the API and metrics listeners until ctx is cancelled or one
// of them fails.
func serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	log.Info("Starting audit server...", map[string]interface{}{
		"version":     version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.TracingEndpoint)
	defer obs.Shutdown()

	catalogue, err := questionnaire.Load()
	if err != nil {
		return err
	}

	collab, err := buildPipeline(ctx, cfg, obs, log)
	if err != nil {
		return err
	}
	defer collab.close(log)

	srvOpts := server.Options{
		Config:    cfg.Server,
		Catalogue: catalogue,
		Submitter: collab.pipeline,
		Static:    web.Static(),
		Logger:    log,
	}

	if cfg.Database.Redis.Enabled() {
		rdb, err := connectRedis(ctx, cfg.Database.Redis, log)
		if err != nil {
			return err
		}
		collab.closers = append(collab.closers, rdb.Close)
		srvOpts.Ready = rdb
		if limit := cfg.Database.Redis.ThrottleLimit; limit > 0 {
			window := config.GetDuration(cfg.Database.Redis.ThrottleWindow)
			srvOpts.Throttle = server.NewRedisThrottle(rdb, limit, window, log)
		}
	}

	srv, err := server.New(srvOpts)
	if err != nil {
		return err
	}

	var metricsSrv *http.Server
	if addr := cfg.Server.MetricsAddr(); addr != "" {
		metricsSrv = newMetricsServer(addr)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	if metricsSrv != nil {
		g.Go(func() error {
			log.Info("Metrics server listening", map[string]interface{}{"addr": metricsSrv.Addr})
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received, draining requests...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if metricsSrv != nil {
			err = errors.Join(err, metricsSrv.Shutdown(shutdownCtx))
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Audit server stopped gracefully", nil)
	return nil
}

func newMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, log logger.Logger) (*database.RedisClient, error) {
	rdb, err := database.NewRedis(cfg)
	if err != nil {
		return nil, err
	}

	err = retryWithBackoff(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx)
	}, 5, time.Second, log, "Redis connection")
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	log.Info("Redis connected successfully", map[string]interface{}{"addr": cfg.Address})
	return rdb, nil
}
