package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/talent-api/internal/clients/talentapi"
	"github.com/KirkDiggler/talent-api/internal/config"
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/metrics"
)

const payloadPath = "/talentapi"

var payloadAddr string

var payloadServerCmd = &cobra.Command{
	Use:   "payload-server",
	Short: "Serve DBC talent payloads over HTTP",
	Long:  `Serve GET /talentapi?klass=<class> straight from the Postgres DBC export, for use as the http source of another server.`,
	RunE:  runPayloadServer,
}

func init() {
	payloadServerCmd.Flags().StringVar(&payloadAddr, "addr", ":8080", "HTTP listen address")
}

type payloadFetcher interface {
	FetchPayload(ctx context.Context, class string) (*talents.Payload, error)
}

type payloadHandler struct {
	fetcher payloadFetcher
	metrics metrics.Recorder
}

func newPayloadHandler(f payloadFetcher, rec metrics.Recorder) http.Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &payloadHandler{fetcher: f, metrics: rec}
}

func (h *payloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	class := r.URL.Query().Get(talentapi.ClassParam)
	start := time.Now()
	payload, err := h.fetcher.FetchPayload(r.Context(), class)
	h.metrics.ObserveFetch(config.SourcePostgres, time.Since(start), err)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build talent payload", "class", class, "error", err)
		code := http.StatusInternalServerError
		if errors.IsInvalidArgument(err) {
			code = http.StatusBadRequest
		}
		writeJSON(w, code, map[string]string{"error": errors.GetMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

func runPayloadServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Source = config.SourcePostgres
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, db, err := openPostgres(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	m := metrics.NewManager()
	mux := http.NewServeMux()
	mux.Handle(payloadPath, newPayloadHandler(repo, m))
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              payloadAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Payload server starting", "addr", payloadAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		slog.Info("Payload server stopped")
		return nil
	case err := <-errChan:
		return err
	}
}
