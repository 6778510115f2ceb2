package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/keshav-jajoriya/bill-tracker/internal/billing"
	"github.com/keshav-jajoriya/bill-tracker/internal/config"
	"github.com/keshav-jajoriya/bill-tracker/internal/invoice"
	"github.com/keshav-jajoriya/bill-tracker/internal/middleware"
	"github.com/keshav-jajoriya/bill-tracker/internal/service"
	"github.com/keshav-jajoriya/bill-tracker/internal/storage"
	"github.com/keshav-jajoriya/bill-tracker/internal/storage/file"
	"github.com/keshav-jajoriya/bill-tracker/internal/storage/memory"
	"github.com/keshav-jajoriya/bill-tracker/internal/storage/sqlite"
	"github.com/keshav-jajoriya/bill-tracker/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	kv, err := openKV(cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	slog.Info("storage initialized", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := billing.New(ctx, kv)
	if err != nil {
		slog.Error("failed to initialize billing store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("billing store loaded", "lists", store.Len())

	exporter := invoice.NewExporter(&invoice.CommandRasterizer{
		Bin:    cfg.PDFBin,
		OutDir: cfg.PDFDir,
	})

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logging)
	router.Use(middleware.Metrics)

	router.Mount("/api", service.New(store, exporter).Routes())
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// h2c allows HTTP/2 without TLS for local clients.
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}

	go func() {
		slog.Info("server starting", "address", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}

func openKV(cfg config.Config) (storage.KV, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return sqlite.New(filepath.Join(cfg.DataDir, "billing.db"))
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return file.New(cfg.DataDir)
	}
}
