package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/fundkeeper/internal/auth"
	"github.com/mmynk/fundkeeper/internal/config"
	"github.com/mmynk/fundkeeper/internal/middleware"
	"github.com/mmynk/fundkeeper/internal/service"
	"github.com/mmynk/fundkeeper/internal/storage/sqlite"
	"github.com/mmynk/fundkeeper/pkg/api/apiconnect"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the document server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := commonRun(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveRun(ctx, cfg, logger)
		},
	}
	return cmd
}

func serveRun(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.RequireSecret(); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := sqlite.New(cfg.DatabasePath,
		sqlite.WithMetrics(reg),
		sqlite.WithLogger(logger.With("component", "sqlite")),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DatabasePath)

	jwtManager := auth.NewJWTManager(cfg.TokenSecret, cfg.TokenTTL)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewDocumentServiceHandler(
		service.NewDocumentService(store, logger.With("component", "service")),
		// Auth runs first so request logs carry the caller
		connect.WithInterceptors(
			middleware.RequireAuth(jwtManager),
			middleware.LoggingInterceptor(logger),
		),
	))
	mux.Handle(grpchealth.NewHandler(
		grpchealth.NewStaticChecker(apiconnect.DocumentServiceName),
	))
	mux.Handle(cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr: cfg.ListenAddress,
		// Use h2c so server streams work over HTTP/2 without TLS
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Document server starting", "address", cfg.ListenAddress, "metrics", cfg.MetricsPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Open Subscribe streams keep connections busy until the deadline
		logger.Warn("Shutdown incomplete", "error", err)
		return srv.Close()
	}
	return nil
}
