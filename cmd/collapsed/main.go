package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fss-lab/collapse-core/internal/collapsed"
	"github.com/fss-lab/collapse-core/pkg/config"
	"github.com/fss-lab/collapse-core/pkg/logger"
)

func main() {
	var httpAddr string
	var dbDriver string
	var dbDSN string
	var logLevel string
	var jobPath string

	flag.StringVar(&httpAddr, "http-addr", ":8080", "HTTP listen address")
	flag.StringVar(&dbDriver, "db-driver", "sqlite", "search store driver (sqlite or postgres)")
	flag.StringVar(&dbDSN, "db-dsn", "", "search store DSN (driver default when empty)")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&jobPath, "job", "", "run a single YAML job file and print the result instead of serving")
	flag.Parse()

	logger.SetDefault(logger.NewText(logLevel, os.Stdout))

	if jobPath != "" {
		runOnce(jobPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := collapsed.OpenDB(dbCtx, collapsed.Driver(dbDriver), dbDSN)
	cancel()
	if err != nil {
		logger.Error("failed to open search store", "driver", dbDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := collapsed.NewStore(db)
	executor := collapsed.NewExecutor(store)

	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           collapsed.NewServer(store, executor).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	executor.Wait()
}

// runOnce executes a YAML job file synchronously and prints the
// outcome as JSON, bypassing the store entirely.
func runOnce(path string) {
	job, err := config.LoadJob(path)
	if err != nil {
		logger.Error("failed to load job", "path", path, "error", err)
		os.Exit(1)
	}
	if job.LogLevel != "" {
		logger.SetDefault(logger.NewText(job.LogLevel, os.Stdout))
	}

	start := time.Now()
	outcome, err := collapsed.RunJob(job)
	if err != nil {
		logger.Error("search failed", "error", err)
		os.Exit(1)
	}
	logger.Info("search completed", "mode", outcome.Mode,
		"best_v1", outcome.BestV1, "min_residual", outcome.MinResidual,
		"elapsed", time.Since(start).String())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		logger.Error("failed to encode outcome", "error", err)
		os.Exit(1)
	}
}
