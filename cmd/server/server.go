package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/talent-api/internal/config"
	"github.com/KirkDiggler/talent-api/internal/handlers/talents/v1alpha1"
)

const shutdownTimeout = 30 * time.Second

var (
	grpcPort int
	source   string
	httpAddr string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the talent calculator gRPC server, plus the metrics side port.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 50051, "gRPC server port")
	serverCmd.Flags().StringVar(&source, "source", config.SourceHTTP, "payload source: http, postgres or static")
	serverCmd.Flags().StringVar(&httpAddr, "http-addr", ":9090", "metrics listen address, empty to disable")
}

// loadConfig reads the config file and applies any flags set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.GRPCPort = grpcPort
	}
	if flags.Changed("source") {
		cfg.Source = source
	}
	if flags.Changed("http-addr") {
		cfg.HTTPAddr = httpAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to wire services: %w", err)
	}
	defer a.Close()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandlerContext(recoverFunc)),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(grpc_recovery.WithRecoveryHandlerContext(recoverFunc)),
		),
	)

	talentHandler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		TalentService: a.service,
	})
	if err != nil {
		return fmt.Errorf("failed to create talent handler: %w", err)
	}

	v1alpha1.RegisterTalentServiceServer(srv, talentHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	var (
		side    *http.Server
		sideLis net.Listener
	)
	if cfg.HTTPAddr != "" {
		sideLis, err = net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			srv.Stop()
			return fmt.Errorf("failed to listen on http side port: %w", err)
		}
		side = &http.Server{
			Handler:           sideMux(a),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return serve(ctx, srv, lis, healthServer, side, sideLis)
}

// serve runs the gRPC server and the optional side port until ctx ends or
// either of them fails. Both are stopped before it returns.
func serve(ctx context.Context, srv *grpc.Server, lis net.Listener, healthServer *health.Server, side *http.Server, sideLis net.Listener) error {
	errChan := make(chan error, 2)
	go func() {
		slog.Info("gRPC server starting", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	if side != nil {
		go func() {
			slog.Info("HTTP side port starting", "addr", sideLis.Addr().String())
			if err := side.Serve(sideLis); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("failed to serve http: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		slog.Info("Shutting down gRPC server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		healthServer.Shutdown()
		if side != nil {
			if err := side.Shutdown(shutdownCtx); err != nil {
				slog.Warn("HTTP side port shutdown failed", "error", err)
			}
		}

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		healthServer.Shutdown()
		srv.Stop()
		if side != nil {
			if cerr := side.Close(); cerr != nil {
				slog.Warn("HTTP side port close failed", "error", cerr)
			}
		}
		return err
	}
}

// sideMux serves metrics and liveness. The postgres source also exposes
// its payloads so the http source of another instance can read them.
func sideMux(a *app) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if a.dbc != nil {
		mux.Handle(payloadPath, newPayloadHandler(a.dbc, a.metrics))
	}
	return mux
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}

func recoverFunc(ctx context.Context, p any) error {
	slog.ErrorContext(ctx, "Recovered from handler panic", "panic", p)
	return status.Error(codes.Internal, "internal error")
}
