package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/shadowsettle/internal/adapters/storage"
	app "github.com/okian/shadowsettle/internal/app"
	"github.com/okian/shadowsettle/internal/config"
	"github.com/okian/shadowsettle/internal/domain/attestation"
	"github.com/okian/shadowsettle/pkg/logger"
	"github.com/okian/shadowsettle/pkg/metrics"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one settlement task and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("shadowsettle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verifyPath := fs.String("verify", "", "Verify the attestation of an emitted result file and exit")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	// Initialize logging
	if err := logger.Init(logger.WithOutput(stdout, stderr)); err != nil {
		_, _ = io.WriteString(stderr, "ERROR: failed to initialize logging: "+err.Error()+"\n")
		return exitFailure
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			_, _ = io.WriteString(stderr, "ERROR: "+err.Error()+"\n")
		}
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *verifyPath != "" {
		return verify(ctx, *verifyPath)
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "ERROR: "+err.Error(), logger.Error(err))
		return exitFailure
	}

	// Reinitialize with the configured format and apply the level
	// (fallback to info on invalid input).
	if err := logger.Init(logger.WithOutput(stdout, stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = io.WriteString(stderr, "ERROR: failed to initialize logging: "+err.Error()+"\n")
		return exitFailure
	}
	log := logger.Get().With(logger.String("task_id", cfg.TaskID))
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.FromConfig(cfg,
		app.WithLogger(log),
		app.WithMetrics(metrics.NewManager(
			metrics.WithMetricsEnabled(cfg.MetricsEnabled),
			metrics.WithNamespace(cfg.MetricsNamespace),
			metrics.WithConstLabels(map[string]string{"task_id": cfg.TaskID}),
		)),
	)
	if _, err := svc.Run(ctx); err != nil {
		log.Error(ctx, "ERROR: "+err.Error(), logger.Error(err))
		return exitFailure
	}
	return exitOK
}

// verify checks that the attestation of the result at path matches its payouts.
func verify(ctx context.Context, path string) int {
	r, err := storage.ReadResult(path)
	if err != nil {
		logger.Get().Error(ctx, "ERROR: "+err.Error(), logger.Error(err))
		return exitFailure
	}
	if err := attestation.Verify(r); err != nil {
		logger.Get().Error(ctx, "ERROR: "+err.Error(), logger.String("path", path), logger.Error(err))
		return exitFailure
	}
	logger.Get().Info(ctx, "attestation verified",
		logger.String("path", path),
		logger.Int("payouts", len(r.Payouts)),
		logger.String("attestation", r.Attestation))
	return exitOK
}
